package utils

const (
	// IdParamKey is the key for the record id used in routing parameters.
	IdParamKey = "id"

	// TokenParamKey is the key for the emailed token used in routing parameters.
	TokenParamKey = "token"

	// PageParamKey is the key for the page used in pagination query parameters.
	PageParamKey = "page"

	// LimitParamKey is the key for limit used in pagination query parameters.
	LimitParamKey = "limit"

	// CategoryParamKey is the key for the category filter used in query parameters.
	CategoryParamKey = "category"

	// KeywordParamKey is the key for the search keyword used in query parameters.
	KeywordParamKey = "keyword"

	// SortParamKey is the key for the sort order used in query parameters.
	SortParamKey = "sort"

	// ImagesFormKey is the multipart field carrying product images.
	ImagesFormKey = "images"
)
