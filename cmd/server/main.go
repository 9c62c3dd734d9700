package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"library-api/internal/config"
	"library-api/internal/handlers"
	authmw "library-api/internal/middleware"
	"library-api/internal/postgres"
	"library-api/internal/token"
	"library-api/internal/workers"
)

func main() {
	// Wczytaj zmienne środowiskowe z pliku .env
	if err := godotenv.Load(); err != nil {
		log.Println("Brak pliku .env - używam zmiennych systemowych")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Błąd konfiguracji: %v", err)
	}

	ctx := context.Background()

	// Połączenie z bazą danych i założenie schematu
	db, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Błąd połączenia z bazą danych: %v", err)
	}
	defer db.Close()

	if err := db.InitSchema(ctx); err != nil {
		log.Fatalf("Błąd zakładania schematu: %v", err)
	}
	log.Println("Połączono z bazą danych")

	// Serwis tokenów i middleware uwierzytelniania
	tokens := token.NewService(cfg.JWTSecret)
	auth := authmw.NewAuthenticator(tokens, db)

	// Worker oznaczający przeterminowane wypożyczenia
	sweeper := workers.NewSweeper(db)
	sweeper.Start()
	defer sweeper.Stop()

	// Inicjalizacja routera Chi
	r := chi.NewRouter()

	// Middleware do logowania requestów
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Odrzucaj żądania spoza listy dozwolonych hostów
	r.Use(allowedHosts(cfg))

	// Inicjalizacja handlerów
	authHandler := handlers.NewAuthHandler(db, tokens)
	booksHandler := handlers.NewBooksHandler(db)
	circulationHandler := handlers.NewCirculationHandler(db)
	finesHandler := handlers.NewFinesHandler(db)

	// Routy dla autoryzacji
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register/", authHandler.Register)
		r.Post("/login/", authHandler.Login)
		r.Post("/refresh/", authHandler.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)
			r.Get("/me/", authHandler.Me)
			r.Put("/me/", authHandler.UpdateMe)
		})
	})

	// Katalog książek - odczyt publiczny, mutacje tylko dla admina
	r.Route("/api/books", func(r chi.Router) {
		r.Get("/", booksHandler.List)
		r.Get("/{id}/", booksHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)
			r.Use(authmw.RequireAdmin)
			r.Post("/", booksHandler.Create)
			r.Put("/{id}/", booksHandler.Update)
			r.Delete("/{id}/", booksHandler.Delete)
		})
	})

	// Rejestr wypożyczeń (wymaga logowania)
	r.Route("/api/circulation", func(r chi.Router) {
		r.Use(auth.RequireAuth)
		r.Post("/borrow/", circulationHandler.Borrow)
		r.Put("/return/{loan_id}/", circulationHandler.Return)
		r.Get("/my-loans/", circulationHandler.MyLoans)
	})

	// Kary (wymaga logowania)
	r.Route("/api/fines", func(r chi.Router) {
		r.Use(auth.RequireAuth)
		r.Get("/my-fines/", finesHandler.MyFines)
		r.Post("/{id}/pay/", finesHandler.Pay)
	})

	// Start serwera
	log.Printf("Serwer uruchomiony na porcie %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("Nie można uruchomić serwera: %v", err)
	}
}

// allowedHosts odrzuca żądania z nagłówkiem Host spoza konfiguracji
func allowedHosts(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.HostAllowed(r.Host) {
				http.Error(w, "Niedozwolony host", http.StatusBadRequest)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
