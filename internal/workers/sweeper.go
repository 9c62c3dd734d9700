package workers

import (
	"context"
	"log"
	"time"

	"library-api/internal/models"
)

// SweepInterval to częstotliwość przeglądu przeterminowanych wypożyczeń
const SweepInterval = time.Hour

// LoanSweepStore to operacje wymagane przez sweeper
type LoanSweepStore interface {
	GetOverdueCandidates(ctx context.Context, now time.Time) ([]*models.Loan, error)
	MarkLoanOverdue(ctx context.Context, loanID string) error
}

// Sweeper cyklicznie oznacza aktywne wypożyczenia po terminie jako
// przeterminowane i nalicza im kary
type Sweeper struct {
	store    LoanSweepStore
	interval time.Duration
	stop     chan struct{}
}

// NewSweeper tworzy worker z domyślnym interwałem
func NewSweeper(store LoanSweepStore) *Sweeper {
	return &Sweeper{
		store:    store,
		interval: SweepInterval,
		stop:     make(chan struct{}),
	}
}

// Start uruchamia worker w tle. Pierwszy przegląd wykonuje się od razu.
func (s *Sweeper) Start() {
	ticker := time.NewTicker(s.interval)
	go func() {
		defer ticker.Stop()
		s.Sweep(context.Background())
		for {
			select {
			case <-ticker.C:
				s.Sweep(context.Background())
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop zatrzymuje worker
func (s *Sweeper) Stop() {
	close(s.stop)
}

// Sweep wykonuje pojedynczy przegląd przeterminowanych wypożyczeń
func (s *Sweeper) Sweep(ctx context.Context) {
	loans, err := s.store.GetOverdueCandidates(ctx, time.Now())
	if err != nil {
		log.Printf("Sweeper: błąd pobierania wypożyczeń: %v", err)
		return
	}

	for _, loan := range loans {
		if err := s.store.MarkLoanOverdue(ctx, loan.ID); err != nil {
			log.Printf("Sweeper: błąd oznaczania wypożyczenia %s: %v", loan.ID, err)
			continue
		}
		log.Printf("Sweeper: wypożyczenie %s oznaczone jako przeterminowane", loan.ID)
	}
}
