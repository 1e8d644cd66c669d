package devapi

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	bookmodel "bookstore-admin/internal/domains/book/model"
	ordermodel "bookstore-admin/internal/domains/order/model"
	packmodel "bookstore-admin/internal/domains/pack/model"
	sectionmodel "bookstore-admin/internal/domains/section/model"
	usermodel "bookstore-admin/internal/domains/user/model"
)

// Seed fills the store with fixtures. Cover image paths are deliberately a
// mix of relative and absolute so the console exercises URL normalization.
func (s *Store) Seed() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	base := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	seedBooks := []struct {
		title, author, isbn, category, cover string
		price                                string
		stock                                int
	}{
		{"The Left Hand of Darkness", "Ursula K. Le Guin", "9780441478125", "scifi", "/uploads/left-hand.jpg", "11.99", 14},
		{"A Wizard of Earthsea", "Ursula K. Le Guin", "9780547773742", "fantasy", "/uploads/earthsea.jpg", "9.50", 22},
		{"Dune", "Frank Herbert", "9780441172719", "scifi", "https://cdn.example.com/covers/dune.jpg", "13.25", 31},
		{"The Dispossessed", "Ursula K. Le Guin", "9780060512750", "scifi", "/uploads/dispossessed.jpg", "10.75", 8},
		{"Neuromancer", "William Gibson", "9780441569595", "scifi", "uploads/neuromancer.jpg", "12.00", 17},
		{"The Name of the Wind", "Patrick Rothfuss", "9780756404741", "fantasy", "/uploads/notw.jpg", "14.99", 5},
		{"Piranesi", "Susanna Clarke", "9781635575637", "fantasy", "https://cdn.example.com/covers/piranesi.jpg", "16.20", 12},
		{"Kindred", "Octavia E. Butler", "9780807083697", "scifi", "/uploads/kindred.jpg", "13.40", 9},
		{"The Fifth Season", "N. K. Jemisin", "9780316229296", "fantasy", "/uploads/fifth-season.jpg", "15.00", 26},
		{"Hyperion", "Dan Simmons", "9780553283686", "scifi", "/uploads/hyperion.jpg", "11.10", 19},
		{"The Hobbit", "J. R. R. Tolkien", "9780547928227", "fantasy", "/uploads/hobbit.jpg", "10.00", 42},
		{"Ancillary Justice", "Ann Leckie", "9780316246620", "scifi", "", "12.80", 7},
	}

	for i, sb := range seedBooks {
		created := base.Add(time.Duration(i) * 24 * time.Hour)
		s.books = append(s.books, bookmodel.Book{
			ID:            uuid.NewString(),
			Title:         sb.title,
			Author:        sb.author,
			ISBN:          sb.isbn,
			Category:      sb.category,
			Price:         decimal.RequireFromString(sb.price),
			Stock:         sb.stock,
			CoverImageURL: sb.cover,
			Active:        true,
			CreatedAt:     created,
			UpdatedAt:     created,
		})
	}

	statuses := []string{
		ordermodel.StatusPending,
		ordermodel.StatusPaid,
		ordermodel.StatusShipped,
		ordermodel.StatusDelivered,
		ordermodel.StatusCancelled,
	}
	customers := []struct{ name, email string }{
		{"Lena Fischer", "lena@example.com"},
		{"Marco Alves", "marco@example.com"},
		{"Yuki Tanaka", "yuki@example.com"},
		{"Sara Lindgren", "sara@example.com"},
	}
	for i := 0; i < 16; i++ {
		created := base.Add(time.Duration(i) * 36 * time.Hour)
		cust := customers[i%len(customers)]
		s.orders = append(s.orders, ordermodel.Order{
			ID:           uuid.NewString(),
			OrderNumber:  fmt.Sprintf("ORD-2024-%04d", i+1),
			CustomerName: cust.name,
			Email:        cust.email,
			Status:       statuses[i%len(statuses)],
			Total:        decimal.NewFromInt(int64(20 + i*7)).Add(decimal.NewFromFloat(0.99)),
			ItemCount:    1 + i%4,
			CreatedAt:    created,
			UpdatedAt:    created,
		})
	}

	seedUsers := []struct {
		email, name, role, password string
	}{
		{"admin@bookstore.local", "Console Admin", usermodel.RoleAdmin, "admin123!"},
		{"staff@bookstore.local", "Store Staff", usermodel.RoleStaff, "staff123!"},
		{"lena@example.com", "Lena Fischer", usermodel.RoleCustomer, "customer1"},
		{"marco@example.com", "Marco Alves", usermodel.RoleCustomer, "customer2"},
		{"yuki@example.com", "Yuki Tanaka", usermodel.RoleCustomer, "customer3"},
	}
	for i, su := range seedUsers {
		created := base.Add(time.Duration(i) * 12 * time.Hour)
		user := usermodel.User{
			ID:        uuid.NewString(),
			Email:     su.email,
			FullName:  su.name,
			Role:      su.role,
			Active:    true,
			CreatedAt: created,
			UpdatedAt: created,
		}
		s.users = append(s.users, user)

		hash, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash seed password: %w", err)
		}
		s.creds[su.email] = credential{userID: user.ID, role: su.role, passwordHash: hash}
	}

	bookID := func(i int) string { return s.books[i].ID }

	s.sections = append(s.sections,
		sectionmodel.Section{
			ID:            uuid.NewString(),
			Title:         "New Arrivals",
			Position:      0,
			Active:        true,
			BookIDs:       []string{bookID(0), bookID(1), bookID(2)},
			CoverImageURL: "/uploads/sections/new-arrivals.jpg",
			CreatedAt:     base,
			UpdatedAt:     base,
		},
		sectionmodel.Section{
			ID:        uuid.NewString(),
			Title:     "Staff Picks",
			Position:  1,
			Active:    true,
			BookIDs:   []string{bookID(3), bookID(6)},
			CreatedAt: base,
			UpdatedAt: base,
		},
		sectionmodel.Section{
			ID:        uuid.NewString(),
			Title:     "Winter Sale",
			Position:  2,
			Active:    false,
			BookIDs:   []string{bookID(8)},
			CreatedAt: base,
			UpdatedAt: base,
		},
	)

	s.packs = append(s.packs,
		packmodel.Pack{
			ID:            uuid.NewString(),
			Title:         "Le Guin Essentials",
			Description:   "Three classics in one bundle",
			Price:         decimal.RequireFromString("27.90"),
			BookIDs:       []string{bookID(0), bookID(1), bookID(3)},
			CoverImageURL: "/uploads/packs/leguin.jpg",
			Active:        true,
			CreatedAt:     base,
			UpdatedAt:     base,
		},
		packmodel.Pack{
			ID:          uuid.NewString(),
			Title:       "Space Opera Starter",
			Description: "Dune and Hyperion together",
			Price:       decimal.RequireFromString("21.50"),
			BookIDs:     []string{bookID(2), bookID(9)},
			Active:      true,
			CreatedAt:   base,
			UpdatedAt:   base,
		},
	)

	return nil
}
