package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"mascota-mockups/app/controller"
)

type Controllers struct {
	Mockup       *controller.MockupController
	Template     *controller.TemplateController
	BatchStream  *controller.BatchStreamController
	PreviewSheet *controller.PreviewSheetController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// enableCORS adds CORS headers and answers preflight requests
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Expose-Headers", "X-Mockup-Placeholder, X-Mockup-Cache, X-Design-Hash")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// SetupRoutes registers every route and returns the router
func SetupRoutes(controllers *Controllers) *mux.Router {
	r := mux.NewRouter()
	r.Use(enableCORS)

	// Ping endpoint
	r.HandleFunc("/ping", pingHandler).Methods(http.MethodGet)

	// Template catalog routes
	// /templates/assets must be registered before /templates/{id}
	r.HandleFunc("/templates", controllers.Template.ListTemplates).Methods(http.MethodGet)
	r.HandleFunc("/templates/assets", controllers.Template.ListTemplateAssets).Methods(http.MethodGet)
	r.HandleFunc("/templates/{id}", controllers.Template.GetTemplate).Methods(http.MethodGet)

	// Product catalog routes
	r.HandleFunc("/catalog/categories", controllers.Template.ListCategories).Methods(http.MethodGet)
	r.HandleFunc("/catalog/categories/{id}/styles", controllers.Template.ListStyles).Methods(http.MethodGet)
	r.HandleFunc("/catalog/styles/{id}", controllers.Template.GetStyle).Methods(http.MethodGet)

	// Mockup rendering routes
	r.HandleFunc("/mockups/render", controllers.Mockup.Render).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/mockups/batch", controllers.Mockup.Batch).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/mockups/batch/ws", controllers.BatchStream.Stream)

	// Stored mockup records
	r.HandleFunc("/mockups", controllers.Mockup.ListRecords).Methods(http.MethodGet)
	r.HandleFunc("/mockups/{id}", controllers.Mockup.GetRecord).Methods(http.MethodGet)
	r.HandleFunc("/mockups/{id}", controllers.Mockup.DeleteRecord).Methods(http.MethodDelete, http.MethodOptions)

	// Preview sheets
	r.HandleFunc("/styles/{id}/sheet.pdf", controllers.PreviewSheet.GetSheet).Methods(http.MethodGet)

	return r
}
