package service_test

import (
	"context"
	"testing"

	"skyorder/internal/dto"
	"skyorder/internal/model"
	"skyorder/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type setmealFixture struct {
	svc         service.SetmealService
	setmeals    *stubSetmealRepo
	setmealDish *stubSetmealDishRepo
	dishes      *stubDishRepo
}

// newSetmealFixture seeds dishes 1..3 on sale and dish 4 off sale.
func newSetmealFixture(t *testing.T) *setmealFixture {
	t.Helper()
	f := &setmealFixture{
		setmeals:    newStubSetmealRepo(),
		setmealDish: newStubSetmealDishRepo(),
		dishes:      newStubDishRepo(),
	}
	seed := []struct {
		name   string
		price  string
		status int
	}{
		{"Kung Pao Chicken", "38.00", model.StatusEnabled},
		{"Mapo Tofu", "22.00", model.StatusEnabled},
		{"Steamed Rice", "2.00", model.StatusEnabled},
		{"Seasonal Greens", "18.00", model.StatusDisabled},
	}
	for _, s := range seed {
		require.NoError(t, f.dishes.Create(context.Background(), &model.Dish{
			Name: s.name, Price: decimal.RequireFromString(s.price), Status: s.status,
		}))
	}
	catalog := service.NewCatalogService(f.dishes, f.setmeals, nil, 0)
	f.svc = service.NewSetmealService(f.setmeals, f.setmealDish, f.dishes, catalog, fixedClock)
	return f
}

func setmealRequest(name string, items ...dto.SetmealDishRequest) dto.SetmealRequest {
	return dto.SetmealRequest{
		CategoryID:    3,
		Name:          name,
		Price:         decimal.RequireFromString("45.00"),
		SetmealDishes: items,
	}
}

func item(dishID int64, copies int) dto.SetmealDishRequest {
	return dto.SetmealDishRequest{DishID: dishID, Copies: copies}
}

// ── SaveWithDish ─────────────────────────────────────────────────────────────

func TestSetmeal_SaveWithDishPersistsComposition(t *testing.T) {
	f := newSetmealFixture(t)
	ctx := context.Background()

	resp, err := f.svc.SaveWithDish(ctx, 99, setmealRequest("Lunch", item(1, 1), item(3, 2)))
	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
	assert.Equal(t, model.StatusDisabled, resp.Status)
	require.Len(t, resp.SetmealDishes, 2)

	got, err := f.svc.GetByIDWithDish(ctx, resp.ID)
	require.NoError(t, err)
	require.Len(t, got.SetmealDishes, 2)
	for _, e := range got.SetmealDishes {
		assert.Equal(t, resp.ID, e.SetmealID)
	}
	assert.Equal(t, "Kung Pao Chicken", got.SetmealDishes[0].Name)
	assert.True(t, decimal.RequireFromString("38.00").Equal(got.SetmealDishes[0].Price))
	assert.Equal(t, 2, got.SetmealDishes[1].Copies)

	stored, _ := f.setmeals.FindByID(ctx, resp.ID)
	assert.Equal(t, fixedNow, stored.CreateTime)
	assert.Equal(t, fixedNow, stored.UpdateTime)
	assert.Equal(t, int64(99), stored.CreateUser)
	assert.Equal(t, int64(99), stored.UpdateUser)
}

func TestSetmeal_SaveWithEmptyComposition(t *testing.T) {
	f := newSetmealFixture(t)

	resp, err := f.svc.SaveWithDish(context.Background(), 99, setmealRequest("Empty"))
	require.NoError(t, err)

	got, err := f.svc.GetByIDWithDish(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Empty(t, got.SetmealDishes)
}

func TestSetmeal_SaveRejectsUnknownDish(t *testing.T) {
	f := newSetmealFixture(t)

	_, err := f.svc.SaveWithDish(context.Background(), 99, setmealRequest("Lunch", item(1, 1), item(77, 1)))
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Empty(t, f.setmeals.setmeals)
	assert.Empty(t, f.setmealDish.all())
}

func TestSetmeal_SaveRejectsBadComposition(t *testing.T) {
	f := newSetmealFixture(t)
	ctx := context.Background()

	_, err := f.svc.SaveWithDish(ctx, 99, setmealRequest("Lunch", item(1, 0)))
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = f.svc.SaveWithDish(ctx, 99, setmealRequest("Lunch", item(1, 1), item(1, 2)))
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = f.svc.SaveWithDish(ctx, 99, setmealRequest(""))
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestSetmeal_SaveEnabledRequiresDishesOnSale(t *testing.T) {
	f := newSetmealFixture(t)

	req := setmealRequest("Greens Combo", item(1, 1), item(4, 1))
	req.Status = intPtr(model.StatusEnabled)
	_, err := f.svc.SaveWithDish(context.Background(), 99, req)
	assert.ErrorIs(t, err, service.ErrSetmealEnableFailed)
}

// ── UpdateWithDish ───────────────────────────────────────────────────────────

func TestSetmeal_UpdateReplacesComposition(t *testing.T) {
	f := newSetmealFixture(t)
	ctx := context.Background()

	created, err := f.svc.SaveWithDish(ctx, 99, setmealRequest("Lunch", item(1, 1), item(2, 1)))
	require.NoError(t, err)

	req := setmealRequest("Lunch Deluxe", item(3, 4))
	req.Price = decimal.RequireFromString("50.00")
	updated, err := f.svc.UpdateWithDish(ctx, 100, created.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Lunch Deluxe", updated.Name)

	got, err := f.svc.GetByIDWithDish(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lunch Deluxe", got.Name)
	assert.True(t, decimal.RequireFromString("50.00").Equal(got.Price))
	require.Len(t, got.SetmealDishes, 1)
	assert.Equal(t, int64(3), got.SetmealDishes[0].DishID)
	assert.Equal(t, 4, got.SetmealDishes[0].Copies)
	assert.Len(t, f.setmealDish.all(), 1, "old entries are gone")

	stored, _ := f.setmeals.FindByID(ctx, created.ID)
	assert.Equal(t, int64(99), stored.CreateUser)
	assert.Equal(t, int64(100), stored.UpdateUser)
}

func TestSetmeal_UpdateToEmptyComposition(t *testing.T) {
	f := newSetmealFixture(t)
	ctx := context.Background()

	created, err := f.svc.SaveWithDish(ctx, 99, setmealRequest("Lunch", item(1, 1)))
	require.NoError(t, err)

	_, err = f.svc.UpdateWithDish(ctx, 99, created.ID, setmealRequest("Lunch"))
	require.NoError(t, err)
	assert.Empty(t, f.setmealDish.all())
}

func TestSetmeal_UpdateMissingIsNotFound(t *testing.T) {
	f := newSetmealFixture(t)

	_, err := f.svc.UpdateWithDish(context.Background(), 99, 404, setmealRequest("Ghost", item(1, 1)))
	assert.ErrorIs(t, err, service.ErrNotFound)
}

// ── DeleteBatch ──────────────────────────────────────────────────────────────

func TestSetmeal_DeleteBatchRejectsWholeBatchIfAnyEnabled(t *testing.T) {
	f := newSetmealFixture(t)
	ctx := context.Background()

	off, err := f.svc.SaveWithDish(ctx, 99, setmealRequest("Off", item(1, 1)))
	require.NoError(t, err)
	on, err := f.svc.SaveWithDish(ctx, 99, setmealRequest("On", item(2, 1)))
	require.NoError(t, err)
	require.NoError(t, f.svc.StartOrStop(ctx, 99, on.ID, model.StatusEnabled))

	err = f.svc.DeleteBatch(ctx, []int64{off.ID, on.ID})
	var notAllowed *service.DeletionNotAllowedError
	require.ErrorAs(t, err, &notAllowed)
	assert.Equal(t, on.ID, notAllowed.ID)

	_, err = f.svc.GetByIDWithDish(ctx, off.ID)
	assert.NoError(t, err, "disabled setmeal survives a rejected batch")
	assert.Len(t, f.setmealDish.all(), 2)
}

func TestSetmeal_DeleteBatchRemovesSetmealAndEntries(t *testing.T) {
	f := newSetmealFixture(t)
	ctx := context.Background()

	a, err := f.svc.SaveWithDish(ctx, 99, setmealRequest("A", item(1, 1), item(2, 1)))
	require.NoError(t, err)
	b, err := f.svc.SaveWithDish(ctx, 99, setmealRequest("B", item(3, 1)))
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteBatch(ctx, []int64{a.ID, a.ID}))

	_, err = f.svc.GetByIDWithDish(ctx, a.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
	entries := f.setmealDish.all()
	require.Len(t, entries, 1)
	assert.Equal(t, b.ID, entries[0].SetmealID)
}

func TestSetmeal_DeleteBatchEmptyOrUnknown(t *testing.T) {
	f := newSetmealFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.DeleteBatch(ctx, nil), service.ErrValidation)
	assert.ErrorIs(t, f.svc.DeleteBatch(ctx, []int64{404}), service.ErrNotFound)
}

// ── StartOrStop / PageQuery ──────────────────────────────────────────────────

func TestSetmeal_EnableRejectedWhileDishDisabled(t *testing.T) {
	f := newSetmealFixture(t)
	ctx := context.Background()

	created, err := f.svc.SaveWithDish(ctx, 99, setmealRequest("Greens Combo", item(1, 1), item(4, 1)))
	require.NoError(t, err)

	err = f.svc.StartOrStop(ctx, 99, created.ID, model.StatusEnabled)
	assert.ErrorIs(t, err, service.ErrSetmealEnableFailed)

	require.NoError(t, f.svc.StartOrStop(ctx, 99, created.ID, model.StatusDisabled))
	assert.ErrorIs(t, f.svc.StartOrStop(ctx, 99, created.ID, 7), service.ErrValidation)
}

func TestSetmeal_PageQueryFilters(t *testing.T) {
	f := newSetmealFixture(t)
	ctx := context.Background()

	for _, name := range []string{"Lunch For One", "Lunch For Two", "Family Dinner"} {
		_, err := f.svc.SaveWithDish(ctx, 99, setmealRequest(name, item(1, 1)))
		require.NoError(t, err)
	}

	page, err := f.svc.PageQuery(ctx, dto.SetmealFilter{Name: "lunch"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.Limit)
	assert.Equal(t, 1, page.TotalPages)
	for _, s := range page.Data {
		assert.Empty(t, s.SetmealDishes)
	}
}
