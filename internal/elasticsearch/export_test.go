package elasticsearch

var (
	BuildContentQuery = buildContentQuery
	EncodeCursor      = encodeCursor
	DecodeCursor      = decodeCursor
)
