package sitemap

var (
	FormatLastMod = formatLastMod
	FlattenValue  = flattenValue
)
