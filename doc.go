// Package mediacat embeds the catalog query engine and record store in a Go program.
//
// The same storage drivers as the API server are available: a JSON file, SQLite,
// Redis or Valkey.
//
//	cat, _ := mediacat.Open(ctx, mediacat.WithFile("database.json"))
//	defer cat.Close()
//
//	rec, _ := cat.Create(ctx, mediacat.RecordInput{Name: "Naruto", Year: 2002, Rating: 8.3})
//	page, _ := cat.Query(ctx, mediacat.Query{Name: "naurto"})
//
// # Fluent queries
//
//	page, _ := cat.Find().
//	    Genres("Action", "Drama").
//	    RatingBetween(7, 10).
//	    SortBy(mediacat.SortRating, mediacat.Descending).
//	    Page(1, 20).
//	    Do(ctx)
package mediacat
