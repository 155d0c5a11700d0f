package catalog

import (
	"context"
	"errors"
	"sort"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"finitefield.org/heritage-web/internal/domain"
	pfirestore "finitefield.org/heritage-web/internal/platform/firestore"
)

// FirestoreSource reads the catalog from two Firestore collections once, at startup.
type FirestoreSource struct {
	client            *firestore.Client
	itemsCollection   string
	regionsCollection string
}

// NewFirestoreSource constructs a source reading the named collections.
func NewFirestoreSource(client *firestore.Client, itemsCollection, regionsCollection string) (*FirestoreSource, error) {
	if client == nil {
		return nil, errors.New("catalog: firestore client is required")
	}
	if strings.TrimSpace(itemsCollection) == "" || strings.TrimSpace(regionsCollection) == "" {
		return nil, errors.New("catalog: firestore collection names are required")
	}
	return &FirestoreSource{
		client:            client,
		itemsCollection:   itemsCollection,
		regionsCollection: regionsCollection,
	}, nil
}

type itemDocument struct {
	Order           int               `firestore:"order"`
	Title           string            `firestore:"title"`
	Description     string            `firestore:"description"`
	LongDescription string            `firestore:"longDescription"`
	Image           string            `firestore:"image"`
	Gallery         []string          `firestore:"gallery"`
	Category        string            `firestore:"category"`
	State           string            `firestore:"state"`
	Region          string            `firestore:"region"`
	Location        string            `firestore:"location"`
	Period          string            `firestore:"period"`
	Significance    string            `firestore:"significance"`
	Source          string            `firestore:"source"`
	SourceURL       string            `firestore:"sourceUrl"`
	Rating          float64           `firestore:"rating"`
	VisitCount      int64             `firestore:"visitCount"`
	IsFeatured      bool              `firestore:"isFeatured"`
	Tags            []string          `firestore:"tags"`
	Latitude        float64           `firestore:"latitude"`
	Longitude       float64           `firestore:"longitude"`
	RelatedItems    []relatedDocument `firestore:"relatedItems"`
}

type relatedDocument struct {
	ID       string `firestore:"id"`
	Title    string `firestore:"title"`
	Image    string `firestore:"image"`
	Category string `firestore:"category"`
}

type regionDocument struct {
	Order       int      `firestore:"order"`
	Name        string   `firestore:"name"`
	States      []string `firestore:"states"`
	Description string   `firestore:"description"`
	Image       string   `firestore:"image"`
}

func (d itemDocument) toDomain(id string) domain.HeritageItem {
	source := domain.Source(strings.ToLower(strings.TrimSpace(d.Source)))
	if source == "" {
		source = domain.SourceLocal
	}
	item := domain.HeritageItem{
		ID:              id,
		Title:           d.Title,
		Description:     d.Description,
		LongDescription: d.LongDescription,
		Image:           d.Image,
		Gallery:         d.Gallery,
		Category:        d.Category,
		State:           d.State,
		Region:          d.Region,
		Location:        d.Location,
		Period:          d.Period,
		Significance:    d.Significance,
		Source:          source,
		SourceURL:       d.SourceURL,
		Rating:          d.Rating,
		VisitCount:      d.VisitCount,
		IsFeatured:      d.IsFeatured,
		Tags:            d.Tags,
		Latitude:        d.Latitude,
		Longitude:       d.Longitude,
	}
	for _, related := range d.RelatedItems {
		item.RelatedItems = append(item.RelatedItems, domain.RelatedItem(related))
	}
	return item
}

func (d regionDocument) toDomain(id string) domain.Region {
	return domain.Region{
		ID:          id,
		Name:        d.Name,
		States:      d.States,
		Description: d.Description,
		Image:       d.Image,
	}
}

type ordered[T any] struct {
	order int
	id    string
	value T
}

// Load reads both collections and returns an immutable repository. Documents are ordered by their
// "order" field, then by document id.
func (s *FirestoreSource) Load(ctx context.Context) (*StaticRepository, error) {
	itemDocs, err := readCollection(ctx, s.client.Collection(s.itemsCollection), func(id string, doc itemDocument) ordered[domain.HeritageItem] {
		return ordered[domain.HeritageItem]{order: doc.Order, id: id, value: doc.toDomain(id)}
	})
	if err != nil {
		return nil, err
	}
	if len(itemDocs) == 0 {
		return nil, ErrEmptyCatalog
	}

	regionDocs, err := readCollection(ctx, s.client.Collection(s.regionsCollection), func(id string, doc regionDocument) ordered[domain.Region] {
		return ordered[domain.Region]{order: doc.Order, id: id, value: doc.toDomain(id)}
	})
	if err != nil {
		return nil, err
	}

	return NewStaticRepository(values(itemDocs), values(regionDocs))
}

func readCollection[D, T any](ctx context.Context, coll *firestore.CollectionRef, convert func(string, D) ordered[T]) ([]ordered[T], error) {
	iter := coll.Documents(ctx)
	defer iter.Stop()

	var out []ordered[T]
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, pfirestore.WrapError("catalog.read "+coll.ID, err)
		}
		var doc D
		if err := snap.DataTo(&doc); err != nil {
			return nil, pfirestore.WrapError("catalog.decode "+snap.Ref.ID, err)
		}
		out = append(out, convert(snap.Ref.ID, doc))
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].order != out[j].order {
			return out[i].order < out[j].order
		}
		return out[i].id < out[j].id
	})
	return out, nil
}

func values[T any](in []ordered[T]) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		out = append(out, v.value)
	}
	return out
}
