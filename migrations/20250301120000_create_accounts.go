package migrations

import (
	"context"

	auth "github.com/goliatone/go-auth-service"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		// UNIQUE(email) is the authoritative uniqueness guard
		_, err := db.NewCreateTable().
			Model((*auth.Account)(nil)).
			IfNotExists().
			Exec(ctx)
		return err
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewDropTable().
			Model((*auth.Account)(nil)).
			IfExists().
			Exec(ctx)
		return err
	})
}
