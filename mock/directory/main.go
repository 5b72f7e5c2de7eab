package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"
)

type category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type mainCategory struct {
	ID         string `json:"id"`
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
}

type subCategory struct {
	ID             string   `json:"id"`
	MainCategoryID string   `json:"main_category_id"`
	Name           string   `json:"name"`
	Options        []string `json:"options,omitempty"`
}

type location struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var categories = []category{
	{ID: "c-furniture", Name: "Furniture"},
	{ID: "c-vehicles", Name: "Vehicles"},
	{ID: "c-electronics", Name: "Electronics"},
}

var mainCategories = map[string][]mainCategory{
	"c-furniture": {
		{ID: "mc-0", CategoryID: "c-furniture", Name: "Sofas"},
		{ID: "mc-3", CategoryID: "c-furniture", Name: "Tables"},
	},
	"c-vehicles": {
		{ID: "mc-1", CategoryID: "c-vehicles", Name: "Cars"},
		{ID: "mc-4", CategoryID: "c-vehicles", Name: "Bikes"},
	},
	"c-electronics": {
		{ID: "mc-2", CategoryID: "c-electronics", Name: "Laptops"},
		{ID: "mc-5", CategoryID: "c-electronics", Name: "Phones"},
	},
}

var subCategories = map[string][]subCategory{
	"mc-0": {
		{ID: "sc-material", MainCategoryID: "mc-0", Name: "Material", Options: []string{"leather", "fabric"}},
		{ID: "sc-seats", MainCategoryID: "mc-0", Name: "Seats", Options: []string{"2", "3", "4+"}},
	},
	"mc-1": {
		{ID: "sc-fuel", MainCategoryID: "mc-1", Name: "Fuel", Options: []string{"petrol", "diesel", "electric"}},
		{ID: "sc-gearbox", MainCategoryID: "mc-1", Name: "Gearbox", Options: []string{"manual", "automatic"}},
	},
	"mc-2": {
		{ID: "sc-ram", MainCategoryID: "mc-2", Name: "RAM", Options: []string{"8GB", "16GB", "32GB"}},
	},
}

var locations = []location{
	{ID: "l-north", Name: "North District"},
	{ID: "l-south", Name: "South District"},
	{ID: "l-east", Name: "East District"},
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[Directory] Write error: %v", err)
	}
}

func main() {
	http.HandleFunc("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, categories)
		log.Printf("[Directory] %s %s - 200 OK", r.Method, r.URL.Path)
	})

	// /api/categories/{categoryId}/main-categories
	http.HandleFunc("/api/categories/", func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) != 4 || parts[3] != "main-categories" {
			http.NotFound(w, r)
			return
		}
		mains, ok := mainCategories[parts[2]]
		if !ok {
			mains = []mainCategory{}
		}
		writeJSON(w, mains)
		log.Printf("[Directory] %s %s - %d main categories", r.Method, r.URL.Path, len(mains))
	})

	// /api/main-categories/{mainCategoryId}/sub-categories
	http.HandleFunc("/api/main-categories/", func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) != 4 || parts[3] != "sub-categories" {
			http.NotFound(w, r)
			return
		}
		schema, ok := subCategories[parts[2]]
		if !ok {
			schema = []subCategory{}
		}
		writeJSON(w, schema)
		log.Printf("[Directory] %s %s - %d attributes", r.Method, r.URL.Path, len(schema))
	})

	http.HandleFunc("/api/locations", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, locations)
		log.Printf("[Directory] %s %s - 200 OK", r.Method, r.URL.Path)
	})

	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"healthy"}`)); err != nil {
			log.Printf("[Directory] Health write error: %v", err)
		}
	})

	log.Println("Mock directory backend running on :8082")
	server := &http.Server{
		Addr:         ":8082",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
