// Package txbridge binds a single database transaction to the lifetime of an
// HTTP request.
//
// The [Middleware] attaches a lazily-started transaction to every request it
// wraps. Nothing touches the database until a handler (or anything else
// downstream of the middleware) calls [FromRequest]; the first call begins a
// transaction on the configured pool, and every later call on the same request
// observes that same transaction. When the wrapped handler returns, the
// middleware inspects the response status: a 2xx response commits the
// transaction, anything else rolls it back. Handlers cannot forget to commit,
// and a handler that fails halfway leaves no partial writes behind.
//
// Basic usage:
//
//	db, _ := sql.Open("sqlite", "app.db")
//
//	mux := http.NewServeMux()
//	mux.HandleFunc("POST /notes", createNote)
//
//	handler := txbridge.Middleware(db)(mux)
//	http.ListenAndServe(":8080", handler)
//
//	func createNote(w http.ResponseWriter, r *http.Request) {
//		tx, err := txbridge.FromRequest(r)
//		if err != nil {
//			http.Error(w, "internal server error", http.StatusInternalServerError)
//			return
//		}
//		defer tx.Close()
//
//		if _, err := tx.ExecContext(r.Context(), "INSERT INTO notes ..."); err != nil {
//			http.Error(w, "internal server error", http.StatusInternalServerError)
//			return // non-2xx: the middleware rolls back
//		}
//		w.WriteHeader(http.StatusCreated) // 2xx: the middleware commits
//	}
//
// Calling [FromRequest] on a request that never passed through the middleware
// fails with [ErrMiddlewareMissing]. Holding two open [Tx] values for the same
// request at once fails with [ErrOverlappingUse]; release one with [Tx.Close]
// before acquiring the next.
//
// Because the middleware may replace the response when a commit fails, the
// downstream response is buffered in memory until the transaction's fate is
// decided. Streaming responses should not be routed through this middleware.
package txbridge
