package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/hardhatdata/wip.git/internal/store"
)

func runInit(ctx context.Context, db *sql.DB) {
	st := store.New(db)

	if err := st.Init(ctx); err != nil {
		fmt.Printf("❌ Error creating tables: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ Database tables created")
	fmt.Println()
	fmt.Println("💡 Next steps:")
	fmt.Println("   wip import jobs.csv change-orders.csv")
}
