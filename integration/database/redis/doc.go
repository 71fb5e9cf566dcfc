// Package redis provides a Redis-backed session store and production-ready
// client initialization with connection validation and retry logic.
//
// Each session record is stored as a JSON blob under blitz:session:<handle>
// with a TTL derived from the record's expiry, so expired sessions vanish
// without a sweep. A per-user set under blitz:user_sessions:<userID> indexes
// the handles owned by each user, backing GetByUserID and revoke-all.
//
// Usage:
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	manager, err := session.New(redis.NewStore(client), sessionCfg)
package redis
