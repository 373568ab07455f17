package catalog

// indexImages maps plant id to the URL of the first image that references it.
// Later images for the same plant are ignored, even if the first URL is empty.
func indexImages(images []ImageRecord) map[int]string {
	index := make(map[int]string, len(images))
	for _, img := range images {
		if img.Plant == nil {
			continue
		}
		if _, seen := index[img.Plant.ID]; !seen {
			index[img.Plant.ID] = img.URL
		}
	}
	return index
}

// Project flattens a plant record into a PlantView using an image index
// built by indexImages.
func Project(p PlantRecord, images map[int]string) PlantView {
	view := PlantView{
		ID:             p.ID,
		Name:           p.PopularName,
		ScientificName: p.ScientificName,
		Description:    DescriptionUnavailable,
		ImageURL:       images[p.ID],
		CategoryName:   UnknownCategory,
		TypeName:       UnknownClassification,
		Edible:         p.EdibleFlag == 1,
		OriginName:     UnknownOrigin,
	}

	if p.Category != nil && p.Category.Name != "" {
		view.CategoryName = p.Category.Name
	}
	if p.Classification != nil && p.Classification.Name != "" {
		view.TypeName = p.Classification.Name
	}
	if p.Origin != nil && p.Origin.Kind != "" {
		view.OriginName = p.Origin.Kind
	}

	return view
}

// ProjectAll joins images onto plants and projects each one, preserving
// plant order. The result is never nil.
func ProjectAll(plants []PlantRecord, images []ImageRecord) []PlantView {
	index := indexImages(images)
	views := make([]PlantView, 0, len(plants))
	for _, p := range plants {
		views = append(views, Project(p, index))
	}
	return views
}
