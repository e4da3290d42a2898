package elasticsearch

var NormalizeURL = normalizeURL
