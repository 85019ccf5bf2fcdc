package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"salesboard/internal/core"
	applog "salesboard/internal/log"
)

// handleInitialize reseeds the store from the upstream feed. Seeding
// is administrative and exclusive; the route is rate limited and all
// cached aggregates are dropped on success.
func (s *Server) handleInitialize(w http.ResponseWriter, r *http.Request) {
	res, err := s.seeder.Seed(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Seeding failed", applog.FieldError, err)
		writeError(w, http.StatusInternalServerError, "Failed to seed database")
		return
	}

	s.InvalidateCaches()
	slog.InfoContext(r.Context(), "Database seeded",
		applog.FieldCount, res.Loaded,
		applog.FieldSkipped, res.Skipped)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Database seeded successfully"})
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	month, ok := parseMonth(r)
	if !ok {
		writeError(w, http.StatusBadRequest, invalidMonthMessage)
		return
	}
	page := parsePositiveInt(r, "page", defaultPage)
	perPage := parsePositiveInt(r, "perPage", defaultPerPage)
	search := parseSearch(r)

	txns, err := s.analytics.Transactions(r.Context(), month, page, perPage, search)
	if err != nil {
		respondQueryError(w, r, err, "Error fetching transactions")
		return
	}
	if txns == nil {
		txns = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, txns)
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	month, ok := parseMonth(r)
	if !ok {
		writeError(w, http.StatusBadRequest, invalidMonthMessage)
		return
	}

	key := strconv.Itoa(month)
	if stats, found := s.statsCache.Get(key); found {
		writeJSON(w, http.StatusOK, stats)
		return
	}

	stats, err := s.analytics.Statistics(r.Context(), month)
	if err != nil {
		respondQueryError(w, r, err, "Error fetching statistics")
		return
	}
	s.statsCache.Set(key, stats)
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleBarChart(w http.ResponseWriter, r *http.Request) {
	month, ok := parseMonth(r)
	if !ok {
		writeError(w, http.StatusBadRequest, invalidMonthMessage)
		return
	}

	key := strconv.Itoa(month)
	if buckets, found := s.barCache.Get(key); found {
		writeJSON(w, http.StatusOK, buckets)
		return
	}

	buckets, err := s.analytics.PriceBuckets(r.Context(), month)
	if err != nil {
		respondQueryError(w, r, err, "Error fetching bar chart data")
		return
	}
	s.barCache.Set(key, buckets)
	writeJSON(w, http.StatusOK, buckets)
}

func (s *Server) handlePieChart(w http.ResponseWriter, r *http.Request) {
	month, ok := parseMonth(r)
	if !ok {
		writeError(w, http.StatusBadRequest, invalidMonthMessage)
		return
	}

	key := strconv.Itoa(month)
	if counts, found := s.pieCache.Get(key); found {
		writeJSON(w, http.StatusOK, counts)
		return
	}

	counts, err := s.analytics.CategoryCounts(r.Context(), month)
	if err != nil {
		respondQueryError(w, r, err, "Error fetching pie chart data")
		return
	}
	if counts == nil {
		counts = []core.CategoryCount{}
	}
	s.pieCache.Set(key, counts)
	writeJSON(w, http.StatusOK, counts)
}

func (s *Server) handleCombined(w http.ResponseWriter, r *http.Request) {
	month, ok := parseMonth(r)
	if !ok {
		writeError(w, http.StatusBadRequest, invalidMonthMessage)
		return
	}
	page := parsePositiveInt(r, "page", defaultPage)
	perPage := parsePositiveInt(r, "perPage", defaultPerPage)
	search := parseSearch(r)

	view, err := s.analytics.Combined(r.Context(), month, page, perPage, search)
	if err != nil {
		respondQueryError(w, r, err, "Error fetching combined data")
		return
	}
	if view.Transactions == nil {
		view.Transactions = []core.Transaction{}
	}
	if view.PieChart == nil {
		view.PieChart = []core.CategoryCount{}
	}
	writeJSON(w, http.StatusOK, view)
}
