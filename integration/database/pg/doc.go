// Package pg provides a Postgres-backed session store on pgx, plus pool
// initialization and embedded goose migrations.
//
// Store operations run against the pool by default; a caller-managed
// transaction placed in the context via WithTx is joined instead, so session
// writes can be made atomic with surrounding application writes.
//
// Expired records are treated as absent by the session core; a periodic
// DELETE on expires_at (or an external sweep) keeps the table bounded.
//
// Usage:
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := pg.Migrate(ctx, pool); err != nil {
//		log.Fatal(err)
//	}
//
//	manager, err := session.New(pg.NewStore(pool), sessionCfg)
package pg
