package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"library-api/internal/config"
	"library-api/internal/models"
	"library-api/internal/postgres"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "libraryctl",
		Short: "Narzędzia administracyjne systemu bibliotecznego",
	}

	rootCmd.AddCommand(createAdminCmd())
	rootCmd.AddCommand(seedBooksCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// connect wczytuje konfigurację i otwiera połączenie z bazą
func connect(ctx context.Context) (*postgres.Client, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Brak pliku .env - używam zmiennych systemowych")
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	db, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if err := db.InitSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func createAdminCmd() *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Tworzy konto administratora",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || email == "" || password == "" {
				return fmt.Errorf("flagi --username, --email i --password są wymagane")
			}

			ctx := cmd.Context()
			db, err := connect(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("błąd hashowania hasła: %w", err)
			}

			user := &models.User{
				Username:     username,
				PasswordHash: string(hash),
				Email:        email,
				Role:         models.RoleAdmin,
				IsActive:     true,
				MaxLoans:     10, // Admin może mieć więcej wypożyczeń
			}

			if err := db.CreateUser(ctx, user); err != nil {
				if errors.Is(err, postgres.ErrDuplicate) {
					return fmt.Errorf("użytkownik %s już istnieje", username)
				}
				return err
			}

			fmt.Printf("✓ Utworzono administratora: %s (%s)\n", user.Username, user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "nazwa użytkownika administratora")
	cmd.Flags().StringVar(&email, "email", "", "adres email administratora")
	cmd.Flags().StringVar(&password, "password", "", "hasło administratora")

	return cmd
}

func seedBooksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-books",
		Short: "Dodaje przykładowe książki do katalogu",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := connect(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			books := []models.Book{
				{
					ISBN:     "978-83-8032-464-8",
					Title:    "Wiedźmin: Ostatnie życzenie",
					Author:   "Andrzej Sapkowski",
					Quantity: 3,
				},
				{
					ISBN:     "978-83-240-1455-5",
					Title:    "Zbrodnia i kara",
					Author:   "Fiodor Dostojewski",
					Quantity: 2,
				},
				{
					ISBN:     "978-83-7686-320-4",
					Title:    "Sapiens: Od zwierząt do bogów",
					Author:   "Yuval Noah Harari",
					Quantity: 4,
				},
				{
					ISBN:     "978-83-7885-585-8",
					Title:    "Rok 1984",
					Author:   "George Orwell",
					Quantity: 3,
				},
				{
					ISBN:     "978-83-280-3594-1",
					Title:    "Pan Tadeusz",
					Author:   "Adam Mickiewicz",
					Quantity: 5,
				},
			}

			added := 0
			for i := range books {
				book := books[i]
				if err := db.CreateBook(ctx, &book); err != nil {
					if errors.Is(err, postgres.ErrDuplicate) {
						log.Printf("Pomijam %s - ISBN już istnieje", book.Title)
						continue
					}
					return err
				}
				added++
				fmt.Printf("✓ Dodano: %s (%s)\n", book.Title, book.Author)
			}

			fmt.Printf("Dodano %d książek\n", added)
			return nil
		},
	}
}
