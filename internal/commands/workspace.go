package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/cleared-dev/bankfeed/internal/accounts"
	"github.com/cleared-dev/bankfeed/internal/allowance"
	"github.com/cleared-dev/bankfeed/internal/categorize"
	"github.com/cleared-dev/bankfeed/internal/config"
	"github.com/cleared-dev/bankfeed/internal/logger"
	"github.com/cleared-dev/bankfeed/internal/places"
	"github.com/cleared-dev/bankfeed/internal/store"
	"github.com/cleared-dev/bankfeed/internal/trips"
)

// workspace is an initialized bankfeed directory with its config, chart of
// accounts and open store.
type workspace struct {
	root   string
	cfg    *config.Config
	chart  *accounts.Service
	store  store.Store
	db     *gorm.DB
	places *places.Gazetteer
}

func openWorkspace(dir string) (*workspace, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(cfg, filepath.Join(root, ".env")); err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	logger.Init(cfg.Log.Env)

	chart, err := accounts.Load(root)
	if err != nil {
		return nil, err
	}

	st, db, err := store.Open(resolvePath(root, cfg.Store.Path, "bankfeed.db"))
	if err != nil {
		return nil, err
	}

	g := places.Default()
	for _, p := range cfg.Trips.Places {
		g.Add(places.Place{Name: p.Name, County: p.County, Point: places.Point{Lat: p.Lat, Lon: p.Lon}})
	}

	return &workspace{root: root, cfg: cfg, chart: chart, store: st, db: db, places: g}, nil
}

func (w *workspace) Close() {
	if err := store.Close(w.db); err != nil {
		logger.Get().Warnw("closing store", "error", err)
	}
	logger.Sync()
}

// bankAccount returns the configured account with the given ID, or the
// first configured account when id is 0.
func (w *workspace) bankAccount(id int) (config.BankAccount, error) {
	for _, a := range w.cfg.BankAccounts {
		if id == 0 || a.AccountID == id {
			return a, nil
		}
	}
	if id == 0 {
		return config.BankAccount{AccountID: accounts.AccountBusinessCurrent}, nil
	}
	if !w.chart.Exists(id) {
		return config.BankAccount{}, fmt.Errorf("account %d is not in the chart of accounts", id)
	}
	return config.BankAccount{AccountID: id}, nil
}

// base resolves the director's base location to a place.
func (w *workspace) base() (trips.Base, error) {
	d := w.cfg.Director
	p, ok := w.places.Lookup(d.BaseLocation)
	if !ok {
		p, ok = w.places.County(d.BaseLocation)
	}
	if !ok {
		return trips.Base{}, fmt.Errorf("unknown base location %q; add it under trips.places", d.BaseLocation)
	}
	return trips.Base{Place: p, LocalRadiusKm: d.LocalRadiusKm}, nil
}

func (w *workspace) calculator() (*allowance.Calculator, error) {
	b, err := w.base()
	if err != nil {
		return nil, err
	}
	a := w.cfg.Allowances
	return &allowance.Calculator{
		Rates: allowance.Rates{
			Overnight:    decimal.NewFromFloat(a.OvernightRate),
			Day:          decimal.NewFromFloat(a.DayRate),
			MealDay:      decimal.NewFromFloat(a.MealDayRate),
			MileagePerKm: decimal.NewFromFloat(a.MileageRatePerKm),
		},
		Director: allowance.Director{
			Base:       b,
			HomeCounty: w.cfg.Director.HomeCounty,
			Vehicle:    w.cfg.Director.Vehicle,
		},
		Places: w.places,
	}, nil
}

// rulesPath resolves categorize.rules_file against the workspace root.
func (w *workspace) rulesPath() string {
	return resolvePath(w.root, w.cfg.Categorize.RulesFile, categorize.RulesPath)
}

// resolvePath joins a configured path onto root unless it is absolute,
// using fallback when the setting is empty.
func resolvePath(root, configured, fallback string) string {
	if configured == "" {
		configured = fallback
	}
	if filepath.IsAbs(configured) {
		return configured
	}
	return filepath.Join(root, configured)
}

func (w *workspace) pace() time.Duration {
	d, err := time.ParseDuration(w.cfg.Categorize.Pace)
	if err != nil {
		return 0
	}
	return d
}
