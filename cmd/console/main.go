package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"bookstore-admin/internal/api"
	"bookstore-admin/internal/auth"
	"bookstore-admin/internal/config"
	"bookstore-admin/internal/controller"
	bookmodel "bookstore-admin/internal/domains/book/model"
	ordermodel "bookstore-admin/internal/domains/order/model"
	packmodel "bookstore-admin/internal/domains/pack/model"
	sectionmodel "bookstore-admin/internal/domains/section/model"
	usermodel "bookstore-admin/internal/domains/user/model"
	cachefactory "bookstore-admin/internal/infrastructure/cache"
	pkgcache "bookstore-admin/pkg/cache"
	"bookstore-admin/pkg/logger"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage:
  console <books|orders|users|sections|packs> list [-page N] [-size N] [-search S] [-sort F] [-dir asc|desc]
  console <books|orders|users|sections|packs> get <id>
  console <books|orders|users|sections|packs> delete <id>

Credentials come from ADMIN_EMAIL / ADMIN_PASSWORD.`)
	os.Exit(2)
}

type listOptions struct {
	page, size        int
	search, sort, dir string
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.App.Environment)

	if len(os.Args) < 3 {
		usage()
	}
	resource, action := os.Args[1], os.Args[2]

	flags := flag.NewFlagSet("list", flag.ExitOnError)
	page := flags.Int("page", 1, "one-based page number")
	size := flags.Int("size", cfg.Upstream.DefaultSize, "page size")
	search := flags.String("search", "", "search text")
	sortField := flags.String("sort", "", "sort field")
	dir := flags.String("dir", "asc", "sort direction")

	var id string
	switch action {
	case "list":
		flags.Parse(os.Args[3:])
	case "get", "delete":
		if len(os.Args) < 4 {
			usage()
		}
		id = os.Args[3]
	default:
		usage()
	}

	tokens, err := login(cfg)
	if err != nil {
		log.Fatalf("Login failed: %v", err)
	}

	queryCache, err := cachefactory.New(cfg)
	if err != nil {
		log.Fatalf("Failed to build cache: %v", err)
	}
	if queryCache != nil {
		defer queryCache.Close()
	}

	client := api.NewClient(cfg.Upstream.BaseURL,
		api.WithTokenSource(tokens),
		api.WithRetry(cfg.Upstream.RetryMax),
		api.WithImageBaseURL(cfg.Upstream.ImageBaseURL),
		api.WithReauth(func() {
			fmt.Fprintln(os.Stderr, "session expired: please log in again")
		}),
	)

	opts := listOptions{page: *page, size: *size, search: *search, sort: *sortField, dir: *dir}
	if err := run(cfg, client, queryCache, resource, action, id, opts); err != nil {
		log.Fatalf("%s %s failed: %v", resource, action, err)
	}
}

func run(cfg *config.Config, client *api.Client, queryCache pkgcache.Cache, resource, action, id string, opts listOptions) error {
	switch resource {
	case "books":
		return dispatch(cfg, client.Books(), queryCache, "books", action, id, opts,
			func(b bookmodel.Book) string { return b.ID },
			func(w *tabwriter.Writer, items []bookmodel.Book) {
				fmt.Fprintln(w, "ID\tTITLE\tAUTHOR\tPRICE\tSTOCK\tCOVER")
				for _, b := range items {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n", b.ID, b.Title, b.Author, b.Price, b.Stock, b.CoverImageURL)
				}
			})
	case "orders":
		return dispatch(cfg, client.Orders(), queryCache, "orders", action, id, opts,
			func(o ordermodel.Order) string { return o.ID },
			func(w *tabwriter.Writer, items []ordermodel.Order) {
				fmt.Fprintln(w, "ID\tNUMBER\tCUSTOMER\tSTATUS\tTOTAL")
				for _, o := range items {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", o.ID, o.OrderNumber, o.CustomerName, o.Status, o.Total)
				}
			})
	case "users":
		return dispatch(cfg, client.Users(), queryCache, "users", action, id, opts,
			func(u usermodel.User) string { return u.ID },
			func(w *tabwriter.Writer, items []usermodel.User) {
				fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLE\tACTIVE")
				for _, u := range items {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n", u.ID, u.Email, u.FullName, u.Role, u.Active)
				}
			})
	case "sections":
		return dispatch(cfg, client.Sections(), queryCache, "sections", action, id, opts,
			func(s sectionmodel.Section) string { return s.ID },
			func(w *tabwriter.Writer, items []sectionmodel.Section) {
				fmt.Fprintln(w, "ID\tTITLE\tPOSITION\tACTIVE\tBOOKS")
				for _, s := range items {
					fmt.Fprintf(w, "%s\t%s\t%d\t%t\t%d\n", s.ID, s.Title, s.Position, s.Active, len(s.BookIDs))
				}
			})
	case "packs":
		return dispatch(cfg, client.Packs(), queryCache, "packs", action, id, opts,
			func(p packmodel.Pack) string { return p.ID },
			func(w *tabwriter.Writer, items []packmodel.Pack) {
				fmt.Fprintln(w, "ID\tTITLE\tPRICE\tACTIVE\tBOOKS")
				for _, p := range items {
					fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%d\n", p.ID, p.Title, p.Price, p.Active, len(p.BookIDs))
				}
			})
	}
	usage()
	return nil
}

func dispatch[T any](cfg *config.Config, res *api.Resource[T], queryCache pkgcache.Cache, name, action, id string, opts listOptions, idOf func(T) string, printRows func(*tabwriter.Writer, []T)) error {
	switch action {
	case "list":
		return runList(cfg, res, queryCache, name, opts, idOf, printRows)
	case "get":
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Upstream.Timeout)
		defer cancel()
		item, err := res.Get(ctx, id)
		if err != nil {
			return err
		}
		return printJSON(item)
	case "delete":
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Upstream.Timeout)
		defer cancel()
		return res.Delete(ctx, id)
	}
	usage()
	return nil
}

// runList drives a one-shot page through the controller so the CLI exercises
// the same pagination and caching path the admin screens use.
func runList[T any](cfg *config.Config, res *api.Resource[T], queryCache pkgcache.Cache, name string, opts listOptions, idOf func(T) string, printRows func(*tabwriter.Writer, []T)) error {
	ctrl := controller.New(res.List, idOf, controller.Options{
		Resource: name,
		PageSize: opts.size,
		Cache:    queryCache,
		CacheTTL: cfg.Cache.TTL,
	})
	defer ctrl.Close()

	done := make(chan controller.Snapshot[T], 1)
	ctrl.OnChange(func(snap controller.Snapshot[T]) {
		if !snap.Loading {
			select {
			case done <- snap:
			default:
			}
		}
	})

	// Debounce is zero here so search commits immediately. Supersession in
	// the controller means only the final query's result reaches done.
	if opts.search != "" {
		ctrl.SetSearch(opts.search)
	}
	if opts.sort != "" {
		ctrl.SetSort(opts.sort, opts.dir)
	}
	if opts.page > 1 {
		ctrl.SetPage(opts.page)
	}
	ctrl.Load()

	select {
	case snap := <-done:
		if snap.Err != nil {
			return snap.Err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		printRows(w, snap.Items)
		w.Flush()
		fmt.Printf("\npage %d, size %d, %d total\n", snap.DisplayPage, snap.Size, snap.TotalCount)
		return nil
	case <-time.After(cfg.Upstream.Timeout + 5*time.Second):
		return fmt.Errorf("timed out waiting for %s page", name)
	}
}

func login(cfg *config.Config) (*auth.RefreshingTokenSource, error) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil, fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.Upstream.Timeout}
	resp, err := httpClient.Post(cfg.Upstream.BaseURL+"/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("login rejected with status %d", resp.StatusCode)
	}

	var pair struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}

	return auth.NewRefreshingTokenSource(
		cfg.Upstream.BaseURL+cfg.Upstream.RefreshPath,
		pair.AccessToken,
		pair.RefreshToken,
		cfg.Upstream.RefreshLeeway,
	), nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
