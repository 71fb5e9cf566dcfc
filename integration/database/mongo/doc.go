// Package mongo provides a MongoDB-backed session store and client
// initialization with application-level retry logic for cloud deployments.
//
// Session records live in the "sessions" collection with the handle as
// document id. EnsureIndexes creates a user_id index for per-user listings
// and a TTL index on expires_at so MongoDB reaps expired sessions without an
// application sweep.
//
// Usage:
//
//	var cfg mongo.Config
//	config.MustLoad(&cfg)
//
//	client, err := mongo.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	store := mongo.NewStore(client.Database(cfg.Database))
//	if err := store.EnsureIndexes(ctx); err != nil {
//		log.Fatal(err)
//	}
//
//	manager, err := session.New(store, sessionCfg)
package mongo
