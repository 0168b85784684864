// Seeder loads a fixture catalog into the library database, replacing
// whatever books are already there. Run with "import" to load, "destroy" to
// wipe the catalog.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kamalyadav07/Library-Management-System/config"
	"github.com/kamalyadav07/Library-Management-System/models"
	"github.com/kamalyadav07/Library-Management-System/store"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson"
)

var catalog = []models.Book{
	{Title: "1984", Author: "George Orwell", ISBN: "9780451524935", Category: models.CategoryFiction},
	{Title: "Animal Farm", Author: "George Orwell", ISBN: "9780451526342", Category: models.CategoryFiction},
	{Title: "Brave New World", Author: "Aldous Huxley", ISBN: "9780060850524", Category: models.CategoryFiction},
	{Title: "A Brief History of Time", Author: "Stephen Hawking", ISBN: "9780553380163", Category: models.CategoryScience},
	{Title: "The Selfish Gene", Author: "Richard Dawkins", ISBN: "9780199291151", Category: models.CategoryScience},
	{Title: "Cosmos", Author: "Carl Sagan", ISBN: "9780345539434", Category: models.CategoryScience},
	{Title: "Sapiens", Author: "Yuval Noah Harari", ISBN: "9780062316097", Category: models.CategoryHistory},
	{Title: "Guns, Germs, and Steel", Author: "Jared Diamond", ISBN: "9780393317558", Category: models.CategoryHistory},
	{Title: "The Hobbit", Author: "J.R.R. Tolkien", ISBN: "9780547928227", Category: models.CategoryFantasy},
	{Title: "A Game of Thrones", Author: "George R.R. Martin", ISBN: "9780553103540", Category: models.CategoryFantasy},
	{Title: "The Name of the Wind", Author: "Patrick Rothfuss", ISBN: "9780756404741", Category: models.CategoryFantasy},
	{Title: "The Diary of a Young Girl", Author: "Anne Frank", ISBN: "9780553296983", Category: models.CategoryBiography},
	{Title: "Long Walk to Freedom", Author: "Nelson Mandela", ISBN: "9780316548182", Category: models.CategoryBiography},
	{Title: "Thinking, Fast and Slow", Author: "Daniel Kahneman", ISBN: "9780374533557", Category: models.CategoryNonFiction},
	{Title: "Atomic Habits", Author: "James Clear", ISBN: "9780735211292", Category: models.CategoryNonFiction},
}

func connect(ctx context.Context) (*store.DB, error) {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return store.NewMongoDB(ctx, cfg.MongoURI, cfg.DBName)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := connect(ctx)
	if err != nil {
		return err
	}
	defer db.Disconnect(context.Background())

	if _, err := db.Books().DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("clearing books: %w", err)
	}
	now := time.Now()
	docs := make([]interface{}, 0, len(catalog))
	for _, b := range catalog {
		b.IsAvailable = true
		b.Reviews = []models.Review{}
		b.CreatedAt = now
		b.UpdatedAt = now
		docs = append(docs, b)
	}
	if _, err := db.Books().InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("inserting books: %w", err)
	}
	log.Printf("Imported %d books", len(docs))
	return nil
}

func runDestroy(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := connect(ctx)
	if err != nil {
		return err
	}
	defer db.Disconnect(context.Background())

	res, err := db.Books().DeleteMany(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("clearing books: %w", err)
	}
	log.Printf("Removed %d books", res.DeletedCount)
	return nil
}

func main() {
	root := &cobra.Command{
		Use:          "seeder",
		Short:        "Load or wipe the library's fixture catalog",
		SilenceUsage: true,
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "import",
			Short: "Replace the book catalog with fixture data",
			RunE:  runImport,
		},
		&cobra.Command{
			Use:   "destroy",
			Short: "Remove every book from the catalog",
			RunE:  runDestroy,
		},
	)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
