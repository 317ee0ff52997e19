package routes

import (
	"net/http"

	"postboard/app/controllers"
	"postboard/app/middleware"
	"postboard/app/notify"
	"postboard/app/repositories"
	"postboard/app/services"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
)

// Options configures the HTTP handler.
type Options struct {
	// AllowedOrigins lists the CORS origins; empty allows any origin.
	AllowedOrigins []string
	// Notifier receives created posts and comments. Nil disables alerts.
	Notifier notify.Notifier
}

// SetupRoutes registers the post and comment endpoints backed by store.
func SetupRoutes(store repositories.Store, notifier notify.Notifier) *mux.Router {
	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.ContentTypeJSON)

	postController := controllers.NewPostController(
		services.NewPostService(store.Posts(), notifier),
	)
	commentController := controllers.NewCommentController(
		services.NewCommentService(store.Comments(), store.Posts(), notifier),
	)

	router.HandleFunc("/health", health).Methods("GET")

	// Posts endpoints
	router.HandleFunc("/posts", postController.Index).Methods("GET")
	router.HandleFunc("/posts", postController.Create).Methods("POST")
	router.HandleFunc("/posts/{id:[0-9]+}", postController.Update).Methods("PUT")
	router.HandleFunc("/posts/{id:[0-9]+}", postController.Delete).Methods("DELETE")

	// Comments endpoints
	router.HandleFunc("/comments/{postId:[0-9]+}", commentController.Index).Methods("GET")
	router.HandleFunc("/comments/{postId:[0-9]+}", commentController.Create).Methods("POST")
	router.HandleFunc("/comments/{commentId:[0-9]+}", commentController.Update).Methods("PUT")
	router.HandleFunc("/comments/{id:[0-9]+}", commentController.Delete).Methods("DELETE")

	router.NotFoundHandler = middleware.ContentTypeJSON(http.HandlerFunc(notFound))
	router.MethodNotAllowedHandler = middleware.ContentTypeJSON(http.HandlerFunc(methodNotAllowed))

	return router
}

// NewHandler returns the complete application handler. CORS wraps the
// router so preflight requests are answered before route matching.
func NewHandler(store repositories.Store, opts Options) http.Handler {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	})
	return corsHandler(SetupRoutes(store, opts.Notifier))
}

func health(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(`{"status":"ok"}`))
}

func notFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"message":"요청한 경로를 찾을 수 없습니다."}`))
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusMethodNotAllowed)
	w.Write([]byte(`{"message":"허용되지 않은 메서드입니다."}`))
}
