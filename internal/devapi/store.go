package devapi

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	bookmodel "bookstore-admin/internal/domains/book/model"
	ordermodel "bookstore-admin/internal/domains/order/model"
	packmodel "bookstore-admin/internal/domains/pack/model"
	sectionmodel "bookstore-admin/internal/domains/section/model"
	usermodel "bookstore-admin/internal/domains/user/model"
)

// ListParams mirrors the upstream list query contract. Page is zero-based.
type ListParams struct {
	Page    int
	Size    int
	Search  string
	Sort    string
	Dir     string
	Filters map[string]string
}

// credential backs the stub login endpoint.
type credential struct {
	userID       string
	role         string
	passwordHash []byte
}

// Store is the in-memory fixture store behind the devapi stub. It exists to
// realize the documented upstream contract for development and tests, not
// to persist anything.
type Store struct {
	mu       sync.RWMutex
	books    []bookmodel.Book
	orders   []ordermodel.Order
	users    []usermodel.User
	sections []sectionmodel.Section
	packs    []packmodel.Pack
	creds    map[string]credential // keyed by email
}

func NewStore() *Store {
	return &Store{creds: make(map[string]credential)}
}

// Authenticate checks email/password and returns the matching user id and
// role.
func (s *Store) Authenticate(email, password string) (string, string, bool) {
	s.mu.RLock()
	cred, ok := s.creds[email]
	s.mu.RUnlock()
	if !ok {
		return "", "", false
	}
	if bcrypt.CompareHashAndPassword(cred.passwordHash, []byte(password)) != nil {
		return "", "", false
	}
	return cred.userID, cred.role, true
}

// ---- generic list helpers ----

func matchFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func paginate[T any](items []T, page, size int) []T {
	start := page * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}

func orderBy[T any](items []T, less func(a, b T) bool, desc bool) {
	sort.SliceStable(items, func(i, j int) bool {
		if desc {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}

// ---- books ----

func (s *Store) ListBooks(p ListParams) ([]bookmodel.Book, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := make([]bookmodel.Book, 0, len(s.books))
	for _, b := range s.books {
		if p.Search != "" && !matchFold(b.Title, p.Search) && !matchFold(b.Author, p.Search) {
			continue
		}
		if v := p.Filters["category"]; v != "" && b.Category != v {
			continue
		}
		if v := p.Filters["active"]; v != "" && (v == "true") != b.Active {
			continue
		}
		filtered = append(filtered, b)
	}

	desc := p.Dir == "desc"
	switch p.Sort {
	case bookmodel.SortTitle:
		orderBy(filtered, func(a, b bookmodel.Book) bool { return a.Title < b.Title }, desc)
	case bookmodel.SortAuthor:
		orderBy(filtered, func(a, b bookmodel.Book) bool { return a.Author < b.Author }, desc)
	case bookmodel.SortPrice:
		orderBy(filtered, func(a, b bookmodel.Book) bool { return a.Price.LessThan(b.Price) }, desc)
	case bookmodel.SortCreatedAt:
		orderBy(filtered, func(a, b bookmodel.Book) bool { return a.CreatedAt.Before(b.CreatedAt) }, desc)
	}

	return paginate(filtered, p.Page, p.Size), len(filtered)
}

func (s *Store) GetBook(id string) (bookmodel.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.books {
		if b.ID == id {
			return b, nil
		}
	}
	return bookmodel.Book{}, bookmodel.ErrBookNotFound
}

func (s *Store) CreateBook(req bookmodel.CreateBookRequest) (bookmodel.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.ISBN != "" {
		for _, b := range s.books {
			if b.ISBN == req.ISBN {
				return bookmodel.Book{}, bookmodel.ErrISBNAlreadyExists
			}
		}
	}

	now := time.Now().UTC()
	book := bookmodel.Book{
		ID:            uuid.NewString(),
		Title:         req.Title,
		Author:        req.Author,
		ISBN:          req.ISBN,
		Category:      req.Category,
		Price:         req.Price,
		Stock:         req.Stock,
		CoverImageURL: req.CoverImageURL,
		Active:        req.Active,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.books = append(s.books, book)
	return book, nil
}

func (s *Store) UpdateBook(id string, req bookmodel.UpdateBookRequest) (bookmodel.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.books {
		if s.books[i].ID != id {
			continue
		}
		b := &s.books[i]
		b.Title = req.Title
		b.Author = req.Author
		b.ISBN = req.ISBN
		b.Category = req.Category
		b.Price = req.Price
		b.Stock = req.Stock
		b.CoverImageURL = req.CoverImageURL
		b.Active = req.Active
		b.UpdatedAt = time.Now().UTC()
		return *b, nil
	}
	return bookmodel.Book{}, bookmodel.ErrBookNotFound
}

func (s *Store) DeleteBook(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.books {
		if s.books[i].ID == id {
			s.books = append(s.books[:i], s.books[i+1:]...)
			return nil
		}
	}
	return bookmodel.ErrBookNotFound
}

// ---- orders ----

func (s *Store) ListOrders(p ListParams) ([]ordermodel.Order, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := make([]ordermodel.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if p.Search != "" && !matchFold(o.OrderNumber, p.Search) && !matchFold(o.CustomerName, p.Search) {
			continue
		}
		if v := p.Filters["status"]; v != "" && o.Status != v {
			continue
		}
		filtered = append(filtered, o)
	}

	desc := p.Dir == "desc"
	switch p.Sort {
	case "createdAt":
		orderBy(filtered, func(a, b ordermodel.Order) bool { return a.CreatedAt.Before(b.CreatedAt) }, desc)
	case "total":
		orderBy(filtered, func(a, b ordermodel.Order) bool { return a.Total.LessThan(b.Total) }, desc)
	case "status":
		orderBy(filtered, func(a, b ordermodel.Order) bool { return a.Status < b.Status }, desc)
	}

	return paginate(filtered, p.Page, p.Size), len(filtered)
}

func (s *Store) GetOrder(id string) (ordermodel.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return ordermodel.Order{}, ordermodel.ErrOrderNotFound
}

func (s *Store) UpdateOrder(id string, req ordermodel.UpdateOrderRequest) (ordermodel.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ID != id {
			continue
		}
		o := &s.orders[i]
		if o.Status == ordermodel.StatusCancelled && req.Status != ordermodel.StatusCancelled {
			return ordermodel.Order{}, ordermodel.ErrInvalidTransition
		}
		o.Status = req.Status
		o.UpdatedAt = time.Now().UTC()
		return *o, nil
	}
	return ordermodel.Order{}, ordermodel.ErrOrderNotFound
}

func (s *Store) DeleteOrder(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders = append(s.orders[:i], s.orders[i+1:]...)
			return nil
		}
	}
	return ordermodel.ErrOrderNotFound
}

// ---- users ----

func (s *Store) ListUsers(p ListParams) ([]usermodel.User, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := make([]usermodel.User, 0, len(s.users))
	for _, u := range s.users {
		if p.Search != "" && !matchFold(u.Email, p.Search) && !matchFold(u.FullName, p.Search) {
			continue
		}
		if v := p.Filters["role"]; v != "" && u.Role != v {
			continue
		}
		if v := p.Filters["active"]; v != "" && (v == "true") != u.Active {
			continue
		}
		filtered = append(filtered, u)
	}

	desc := p.Dir == "desc"
	switch p.Sort {
	case "email":
		orderBy(filtered, func(a, b usermodel.User) bool { return a.Email < b.Email }, desc)
	case "fullName":
		orderBy(filtered, func(a, b usermodel.User) bool { return a.FullName < b.FullName }, desc)
	case "createdAt":
		orderBy(filtered, func(a, b usermodel.User) bool { return a.CreatedAt.Before(b.CreatedAt) }, desc)
	}

	return paginate(filtered, p.Page, p.Size), len(filtered)
}

func (s *Store) GetUser(id string) (usermodel.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return usermodel.User{}, usermodel.ErrUserNotFound
}

func (s *Store) CreateUser(req usermodel.CreateUserRequest) (usermodel.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	user := usermodel.User{
		ID:        uuid.NewString(),
		Email:     req.Email,
		FullName:  req.FullName,
		Role:      req.Role,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.users = append(s.users, user)

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return usermodel.User{}, err
	}
	s.creds[req.Email] = credential{userID: user.ID, role: user.Role, passwordHash: hash}
	return user, nil
}

func (s *Store) UpdateUser(id string, req usermodel.UpdateUserRequest) (usermodel.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID != id {
			continue
		}
		u := &s.users[i]
		u.FullName = req.FullName
		u.Role = req.Role
		u.Active = req.Active
		u.UpdatedAt = time.Now().UTC()
		if cred, ok := s.creds[u.Email]; ok {
			cred.role = req.Role
			s.creds[u.Email] = cred
		}
		return *u, nil
	}
	return usermodel.User{}, usermodel.ErrUserNotFound
}

func (s *Store) DeleteUser(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID == id {
			delete(s.creds, s.users[i].Email)
			s.users = append(s.users[:i], s.users[i+1:]...)
			return nil
		}
	}
	return usermodel.ErrUserNotFound
}

// ---- sections ----

func (s *Store) ListSections(p ListParams) ([]sectionmodel.Section, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := make([]sectionmodel.Section, 0, len(s.sections))
	for _, sec := range s.sections {
		if p.Search != "" && !matchFold(sec.Title, p.Search) {
			continue
		}
		if v := p.Filters["active"]; v != "" && (v == "true") != sec.Active {
			continue
		}
		filtered = append(filtered, sec)
	}

	desc := p.Dir == "desc"
	switch p.Sort {
	case "position":
		orderBy(filtered, func(a, b sectionmodel.Section) bool { return a.Position < b.Position }, desc)
	case "title":
		orderBy(filtered, func(a, b sectionmodel.Section) bool { return a.Title < b.Title }, desc)
	}

	return paginate(filtered, p.Page, p.Size), len(filtered)
}

func (s *Store) GetSection(id string) (sectionmodel.Section, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sec := range s.sections {
		if sec.ID == id {
			return sec, nil
		}
	}
	return sectionmodel.Section{}, sectionmodel.ErrSectionNotFound
}

func (s *Store) CreateSection(req sectionmodel.SaveSectionRequest) sectionmodel.Section {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	sec := sectionmodel.Section{
		ID:            uuid.NewString(),
		Title:         req.Title,
		Position:      req.Position,
		Active:        req.Active,
		BookIDs:       req.BookIDs,
		CoverImageURL: req.CoverImageURL,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.sections = append(s.sections, sec)
	return sec
}

func (s *Store) UpdateSection(id string, req sectionmodel.SaveSectionRequest) (sectionmodel.Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.sections {
		if s.sections[i].ID != id {
			continue
		}
		sec := &s.sections[i]
		sec.Title = req.Title
		sec.Position = req.Position
		sec.Active = req.Active
		sec.BookIDs = req.BookIDs
		sec.CoverImageURL = req.CoverImageURL
		sec.UpdatedAt = time.Now().UTC()
		return *sec, nil
	}
	return sectionmodel.Section{}, sectionmodel.ErrSectionNotFound
}

func (s *Store) DeleteSection(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.sections {
		if s.sections[i].ID == id {
			s.sections = append(s.sections[:i], s.sections[i+1:]...)
			return nil
		}
	}
	return sectionmodel.ErrSectionNotFound
}

// ---- packs ----

func (s *Store) ListPacks(p ListParams) ([]packmodel.Pack, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filtered := make([]packmodel.Pack, 0, len(s.packs))
	for _, pk := range s.packs {
		if p.Search != "" && !matchFold(pk.Title, p.Search) {
			continue
		}
		if v := p.Filters["active"]; v != "" && (v == "true") != pk.Active {
			continue
		}
		filtered = append(filtered, pk)
	}

	desc := p.Dir == "desc"
	switch p.Sort {
	case "title":
		orderBy(filtered, func(a, b packmodel.Pack) bool { return a.Title < b.Title }, desc)
	case "price":
		orderBy(filtered, func(a, b packmodel.Pack) bool { return a.Price.LessThan(b.Price) }, desc)
	}

	return paginate(filtered, p.Page, p.Size), len(filtered)
}

func (s *Store) GetPack(id string) (packmodel.Pack, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, pk := range s.packs {
		if pk.ID == id {
			return pk, nil
		}
	}
	return packmodel.Pack{}, packmodel.ErrPackNotFound
}

func (s *Store) CreatePack(req packmodel.SavePackRequest) packmodel.Pack {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	pk := packmodel.Pack{
		ID:            uuid.NewString(),
		Title:         req.Title,
		Description:   req.Description,
		Price:         req.Price,
		BookIDs:       req.BookIDs,
		CoverImageURL: req.CoverImageURL,
		Active:        req.Active,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.packs = append(s.packs, pk)
	return pk
}

func (s *Store) UpdatePack(id string, req packmodel.SavePackRequest) (packmodel.Pack, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.packs {
		if s.packs[i].ID != id {
			continue
		}
		pk := &s.packs[i]
		pk.Title = req.Title
		pk.Description = req.Description
		pk.Price = req.Price
		pk.BookIDs = req.BookIDs
		pk.CoverImageURL = req.CoverImageURL
		pk.Active = req.Active
		pk.UpdatedAt = time.Now().UTC()
		return *pk, nil
	}
	return packmodel.Pack{}, packmodel.ErrPackNotFound
}

func (s *Store) DeletePack(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.packs {
		if s.packs[i].ID == id {
			s.packs = append(s.packs[:i], s.packs[i+1:]...)
			return nil
		}
	}
	return packmodel.ErrPackNotFound
}
