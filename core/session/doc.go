// Package session implements the session authentication core: it issues,
// validates, refreshes, and revokes HTTP session credentials for anonymous
// and authenticated users, and enforces anti-CSRF double-submit protection on
// state-changing requests.
//
// On every request the Manager resolves a session context from the incoming
// cookies and headers; on the way out it materializes cookie and signalling
// header mutations reflecting any changes to that session. Requests without a
// usable credential always receive a freshly minted anonymous session, so
// handlers can rely on a session being present.
//
// # Credentials
//
// Anonymous sessions are carried in an HS256 JWT cookie and have no store
// record until private data is attached. Authenticated sessions use an opaque
// token cookie whose SHA-256 hash is persisted server-side; the token also
// embeds a fingerprint of the public data it was issued against, which drives
// change detection during rolling refresh.
//
// # Usage
//
//	store := session.NewMemoryStore()
//	var cfg session.Config
//	config.MustLoad(&cfg)
//
//	manager, err := session.New(store, cfg, session.WithLogger(log))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	mux.Handle("/", middleware.Session(manager)(handler))
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//		sess, _ := session.FromContext(r.Context())
//		if err := sess.Authorize(r.Context(), "admin"); err != nil {
//			...
//		}
//	}
//
// Production deployments plug in one of the store adapters under
// integration/database instead of the in-memory store.
package session
