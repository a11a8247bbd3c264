package advert

// Campaign is promotion/adverts metadata for one campaign. Automatic
// campaigns carry their products under autoParams, united (search +
// catalog) campaigns under unitedParams; ProductIDs hides the split.
type Campaign struct {
	AdvertID int64  `json:"advertId"`
	Type     int    `json:"type"`
	Status   int    `json:"status"`
	EndTime  string `json:"endTime"`

	AutoParams struct {
		Nms []int64 `json:"nms"`
	} `json:"autoParams"`

	UnitedParams []struct {
		Nms []int64 `json:"nms"`
	} `json:"unitedParams"`
}

// ProductIDs returns every product the campaign promotes, regardless of
// campaign kind.
func (c Campaign) ProductIDs() []int64 {
	ids := append([]int64(nil), c.AutoParams.Nms...)
	for _, p := range c.UnitedParams {
		ids = append(ids, p.Nms...)
	}
	return ids
}

// promotes reports whether the campaign touches any of the target
// products.
func (c Campaign) promotes(targets map[int64]struct{}) bool {
	for _, id := range c.ProductIDs() {
		if _, ok := targets[id]; ok {
			return true
		}
	}
	return false
}
