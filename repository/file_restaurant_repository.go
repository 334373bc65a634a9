package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/pedidoshn/pedidos-app/models"
	"github.com/shopspring/decimal"
)

type fileDish struct {
	Name        string          `json:"nombre"`
	Description string          `json:"descripcion"`
	Price       decimal.Decimal `json:"precio"`
	ImageURL    string          `json:"imagen_url"`
}

type fileRestaurant struct {
	ID       string     `json:"id"`
	Slug     string     `json:"slug"`
	Name     string     `json:"nombre"`
	Category string     `json:"categoria"`
	Rating   float64    `json:"rating"`
	PrepTime int        `json:"tiempo_preparacion"`
	ImageURL string     `json:"imagen_url"`
	Dishes   []fileDish `json:"platos"`
}

// LoadRestaurantsFile reads the static catalog. Entries may carry the slug as "id".
// Returned records have no database ids.
func LoadRestaurantsFile(path string) ([]models.Restaurant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var raw []fileRestaurant
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	restaurants := make([]models.Restaurant, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, fr := range raw {
		slug := fr.Slug
		if slug == "" {
			slug = fr.ID
		}
		if slug == "" {
			return nil, fmt.Errorf("%s: entry %d has no slug", path, i)
		}
		if seen[slug] {
			return nil, fmt.Errorf("%s: duplicate slug %q", path, slug)
		}
		seen[slug] = true

		r := models.Restaurant{
			Slug:     slug,
			Name:     fr.Name,
			Category: fr.Category,
			Rating:   fr.Rating,
			PrepTime: fr.PrepTime,
			ImageURL: fr.ImageURL,
		}
		for _, fd := range fr.Dishes {
			r.Dishes = append(r.Dishes, models.Dish{
				Name:        fd.Name,
				Description: fd.Description,
				Price:       fd.Price,
				ImageURL:    fd.ImageURL,
			})
		}
		restaurants = append(restaurants, r)
	}
	return restaurants, nil
}

// FileRestaurantRepository serves the catalog loaded once at startup.
type FileRestaurantRepository struct {
	restaurants []models.Restaurant
	bySlug      map[string]int
}

func NewFileRestaurantRepository(path string) (*FileRestaurantRepository, error) {
	restaurants, err := LoadRestaurantsFile(path)
	if err != nil {
		return nil, err
	}

	repo := &FileRestaurantRepository{
		restaurants: restaurants,
		bySlug:      make(map[string]int, len(restaurants)),
	}
	// synthetic ids so pages can link dishes the same way as with the db source
	dishID := uint(0)
	for i := range repo.restaurants {
		r := &repo.restaurants[i]
		r.ID = uint(i + 1)
		for j := range r.Dishes {
			dishID++
			r.Dishes[j].ID = dishID
			r.Dishes[j].RestaurantID = r.ID
		}
		repo.bySlug[r.Slug] = i
	}
	return repo, nil
}

func (r *FileRestaurantRepository) List(ctx context.Context) ([]models.Restaurant, error) {
	out := make([]models.Restaurant, len(r.restaurants))
	for i, rest := range r.restaurants {
		rest.Dishes = nil
		out[i] = rest
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *FileRestaurantRepository) FindBySlug(ctx context.Context, slug string) (models.Restaurant, error) {
	i, ok := r.bySlug[slug]
	if !ok {
		return models.Restaurant{}, ErrRestaurantNotFound
	}
	rest := r.restaurants[i]
	rest.Dishes = append([]models.Dish(nil), rest.Dishes...)
	return rest, nil
}
