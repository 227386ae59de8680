package service_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"skyorder/internal/dto"
	"skyorder/internal/model"

	"gorm.io/gorm"
)

// ── In-memory ShoppingCartRepository stub ────────────────────────────────────

type stubCartRepo struct {
	mu     sync.Mutex
	lines  map[int64]*model.ShoppingCart
	nextID int64

	// beforeCreate runs ahead of every insert, outside the mutex.
	beforeCreate func()
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{lines: make(map[int64]*model.ShoppingCart)}
}

func (r *stubCartRepo) ListByUserID(_ context.Context, userID int64) ([]model.ShoppingCart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ShoppingCart
	for _, l := range r.lines {
		if l.UserID == userID {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Create enforces one line per identity like the partial unique indexes do.
func (r *stubCartRepo) Create(_ context.Context, line *model.ShoppingCart) error {
	if r.beforeCreate != nil {
		r.beforeCreate()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := model.CartKey{UserID: line.UserID, DishID: line.DishID, SetmealID: line.SetmealID, DishFlavor: line.DishFlavor}
	for _, l := range r.lines {
		if keyMatches(key, l) {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	line.ID = r.nextID
	cp := *line
	r.lines[line.ID] = &cp
	return nil
}

func (r *stubCartRepo) DeleteByUserID(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, l := range r.lines {
		if l.UserID == userID {
			delete(r.lines, id)
		}
	}
	return nil
}

func (r *stubCartRepo) FindByKeyTx(_ *gorm.DB, key model.CartKey) (*model.ShoppingCart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.lines {
		if keyMatches(key, l) {
			cp := *l
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCartRepo) UpdateNumberTx(_ *gorm.DB, id int64, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.lines[id]; ok {
		l.Number += delta
	}
	return nil
}

func (r *stubCartRepo) DeleteByIDTx(_ *gorm.DB, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.lines, id)
	return nil
}

func (r *stubCartRepo) DB() *gorm.DB { return nil }

// insertDirect adds a line without going through Create.
func (r *stubCartRepo) insertDirect(line model.ShoppingCart) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	line.ID = r.nextID
	r.lines[line.ID] = &line
}

func keyMatches(k model.CartKey, l *model.ShoppingCart) bool {
	return l.UserID == k.UserID &&
		eqPtr(l.DishID, k.DishID) &&
		eqPtr(l.SetmealID, k.SetmealID) &&
		eqPtr(l.DishFlavor, k.DishFlavor)
}

func eqPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (r *stubCartRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lines)
}

// ── In-memory DishRepository stub ────────────────────────────────────────────

type stubDishRepo struct {
	mu     sync.Mutex
	dishes map[int64]*model.Dish
	nextID int64
	finds  int
}

func newStubDishRepo() *stubDishRepo {
	return &stubDishRepo{dishes: make(map[int64]*model.Dish)}
}

func (r *stubDishRepo) Create(_ context.Context, d *model.Dish) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	d.ID = r.nextID
	cp := *d
	r.dishes[d.ID] = &cp
	return nil
}

func (r *stubDishRepo) Update(_ context.Context, d *model.Dish) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.dishes[d.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *d
	r.dishes[d.ID] = &cp
	return nil
}

func (r *stubDishRepo) FindByID(_ context.Context, id int64) (*model.Dish, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finds++
	d, ok := r.dishes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *stubDishRepo) FindByIDsTx(_ *gorm.DB, ids []int64) ([]model.Dish, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Dish
	for _, id := range ids {
		if d, ok := r.dishes[id]; ok {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *stubDishRepo) List(_ context.Context, filter dto.DishFilter) ([]model.Dish, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Dish
	for _, d := range r.dishes {
		if filter.Name != "" && !strings.Contains(strings.ToLower(d.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.Status != nil && d.Status != *filter.Status {
			continue
		}
		out = append(out, *d)
	}
	return out, int64(len(out)), nil
}

func (r *stubDishRepo) UpdateStatus(_ context.Context, d *model.Dish) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.dishes[d.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	cur.Status = d.Status
	cur.UpdateTime = d.UpdateTime
	cur.UpdateUser = d.UpdateUser
	return nil
}

func (r *stubDishRepo) DeleteByIDsTx(_ *gorm.DB, ids []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		delete(r.dishes, id)
	}
	return nil
}

func (r *stubDishRepo) DB() *gorm.DB { return nil }

func (r *stubDishRepo) findCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finds
}

// ── In-memory SetmealRepository stub ─────────────────────────────────────────

type stubSetmealRepo struct {
	mu       sync.Mutex
	setmeals map[int64]*model.Setmeal
	nextID   int64
}

func newStubSetmealRepo() *stubSetmealRepo {
	return &stubSetmealRepo{setmeals: make(map[int64]*model.Setmeal)}
}

func (r *stubSetmealRepo) FindByID(_ context.Context, id int64) (*model.Setmeal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.setmeals[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *stubSetmealRepo) FindByIDsTx(_ *gorm.DB, ids []int64) ([]model.Setmeal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Setmeal
	for _, id := range ids {
		if s, ok := r.setmeals[id]; ok {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubSetmealRepo) List(_ context.Context, filter dto.SetmealFilter) ([]model.Setmeal, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Setmeal
	for _, s := range r.setmeals {
		if filter.Name != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.CategoryID != 0 && s.CategoryID != filter.CategoryID {
			continue
		}
		if filter.Status != nil && s.Status != *filter.Status {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *stubSetmealRepo) UpdateStatusTx(_ *gorm.DB, s *model.Setmeal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.setmeals[s.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	cur.Status = s.Status
	cur.UpdateTime = s.UpdateTime
	cur.UpdateUser = s.UpdateUser
	return nil
}

func (r *stubSetmealRepo) CreateTx(_ *gorm.DB, s *model.Setmeal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	s.ID = r.nextID
	cp := *s
	r.setmeals[s.ID] = &cp
	return nil
}

func (r *stubSetmealRepo) UpdateTx(_ *gorm.DB, s *model.Setmeal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.setmeals[s.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *s
	r.setmeals[s.ID] = &cp
	return nil
}

func (r *stubSetmealRepo) DeleteByIDTx(_ *gorm.DB, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.setmeals, id)
	return nil
}

func (r *stubSetmealRepo) DB() *gorm.DB { return nil }

// ── In-memory SetmealDishRepository stub ─────────────────────────────────────

type stubSetmealDishRepo struct {
	mu      sync.Mutex
	entries []model.SetmealDish
	nextID  int64
}

func newStubSetmealDishRepo() *stubSetmealDishRepo { return &stubSetmealDishRepo{} }

func (r *stubSetmealDishRepo) FindBySetmealID(_ context.Context, setmealID int64) ([]model.SetmealDish, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.SetmealDish
	for _, e := range r.entries {
		if e.SetmealID == setmealID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *stubSetmealDishRepo) FindBySetmealIDTx(_ *gorm.DB, setmealID int64) ([]model.SetmealDish, error) {
	return r.FindBySetmealID(context.Background(), setmealID)
}

func (r *stubSetmealDishRepo) FindSetmealIDsByDishIDsTx(_ *gorm.DB, dishIDs []int64) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := make(map[int64]bool, len(dishIDs))
	for _, id := range dishIDs {
		want[id] = true
	}
	seen := make(map[int64]bool)
	var out []int64
	for _, e := range r.entries {
		if want[e.DishID] && !seen[e.SetmealID] {
			seen[e.SetmealID] = true
			out = append(out, e.SetmealID)
		}
	}
	return out, nil
}

func (r *stubSetmealDishRepo) BatchCreateTx(_ *gorm.DB, entries []model.SetmealDish) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range entries {
		r.nextID++
		entries[i].ID = r.nextID
		r.entries = append(r.entries, entries[i])
	}
	return nil
}

func (r *stubSetmealDishRepo) DeleteBySetmealIDTx(_ *gorm.DB, setmealID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.SetmealID != setmealID {
			kept = append(kept, e)
		}
	}
	r.entries = kept
	return nil
}

func (r *stubSetmealDishRepo) all() []model.SetmealDish {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.SetmealDish(nil), r.entries...)
}

// ── Fixtures ─────────────────────────────────────────────────────────────────

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func int64Ptr(v int64) *int64 { return &v }
func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }
