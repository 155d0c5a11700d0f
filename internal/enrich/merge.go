package enrich

import (
	"slices"

	"finitefield.org/heritage-web/internal/domain"
)

// Merge reconciles a local record with a remote one field by field. A local value that is
// present always wins; only absent local fields take the remote value. Neither input is modified.
func Merge(local, remote domain.HeritageItem) domain.HeritageItem {
	out := local.Clone()

	fill(&out.Title, remote.Title)
	fill(&out.Description, remote.Description)
	fill(&out.LongDescription, remote.LongDescription)
	fill(&out.Image, remote.Image)
	fill(&out.Category, remote.Category)
	fill(&out.State, remote.State)
	fill(&out.Region, remote.Region)
	fill(&out.Location, remote.Location)
	fill(&out.Period, remote.Period)
	fill(&out.Significance, remote.Significance)
	fill(&out.SourceURL, remote.SourceURL)
	if out.Source == "" {
		out.Source = remote.Source
	}

	if len(out.Gallery) == 0 {
		out.Gallery = slices.Clone(remote.Gallery)
	}
	if len(out.Tags) == 0 {
		out.Tags = slices.Clone(remote.Tags)
	}
	if len(out.RelatedItems) == 0 {
		out.RelatedItems = slices.Clone(remote.RelatedItems)
	}
	if out.Rating == 0 {
		out.Rating = remote.Rating
	}
	if out.VisitCount == 0 {
		out.VisitCount = remote.VisitCount
	}
	if !out.HasCoordinates() {
		out.Latitude, out.Longitude = remote.Latitude, remote.Longitude
	}

	return out
}

func fill(dst *string, src string) {
	if *dst == "" {
		*dst = src
	}
}

// Item maps the summary onto a partial record suitable for Merge. sanitize cleans the rich
// extract before it can reach a page.
func (s Summary) Item(sanitize func(string) string) domain.HeritageItem {
	longDescription := s.ExtractHTML
	if sanitize != nil {
		longDescription = sanitize(longDescription)
	}
	return domain.HeritageItem{
		Title:           s.Title,
		Description:     s.Extract,
		LongDescription: longDescription,
		Significance:    s.Extract,
		Image:           s.Thumbnail.Source,
		SourceURL:       s.ContentURLs.Desktop.Page,
	}
}
