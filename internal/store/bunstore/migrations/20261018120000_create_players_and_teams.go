package migrations

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/preston-bernstein/fantasy-squad-service/internal/store/bunstore"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().Model((*bunstore.PlayerRow)(nil)).IfNotExists().Exec(ctx); err != nil {
				return err
			}
			if _, err := tx.NewCreateTable().Model((*bunstore.TeamRow)(nil)).IfNotExists().Exec(ctx); err != nil {
				return err
			}
			_, err := tx.NewRaw("CREATE INDEX IF NOT EXISTS idx_players_role ON players (role)").Exec(ctx)
			return err
		})
	}, func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewDropTable().Model((*bunstore.TeamRow)(nil)).IfExists().Exec(ctx); err != nil {
				return err
			}
			_, err := tx.NewDropTable().Model((*bunstore.PlayerRow)(nil)).IfExists().Exec(ctx)
			return err
		})
	})
}
