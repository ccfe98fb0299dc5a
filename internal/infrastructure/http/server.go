package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"stockprices-service/internal/application"
	"stockprices-service/internal/domain"

	"github.com/go-chi/chi/v5"
)

type Server struct {
	svc  *application.PriceService
	ping func(ctx context.Context) error
}

func NewServer(svc *application.PriceService) *Server { return &Server{svc: svc} }

// WithPing registers a readiness probe, normally the DB ping.
func (s *Server) WithPing(ping func(ctx context.Context) error) *Server {
	s.ping = ping
	return s
}

type priceResponse struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	UpdatedAt time.Time `json:"updated_at"`
	Source    string    `json:"source"`
}

func (s *Server) GetPrice(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	q, err := s.svc.GetPrice(r.Context(), symbol)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidSymbol):
			writeError(w, http.StatusBadRequest, "invalid symbol")
		case errors.Is(err, domain.ErrPriceUnavailable):
			writeError(w, http.StatusNotFound, "price unavailable")
		default:
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, priceResponse{
		Symbol:    string(q.Symbol),
		Price:     q.Price,
		UpdatedAt: q.UpdatedAt,
		Source:    q.Source,
	})
}

type companyResponse struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

func (s *Server) GetCompany(w http.ResponseWriter, r *http.Request) {
	symbol := string(domain.NormalizeSymbol(chi.URLParam(r, "symbol")))
	if !domain.ValidSymbol(domain.Symbol(symbol)) {
		writeError(w, http.StatusBadRequest, "invalid symbol")
		return
	}
	name := s.svc.GetCompanyName(r.Context(), symbol)
	writeJSON(w, http.StatusOK, companyResponse{Symbol: symbol, Name: name})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
