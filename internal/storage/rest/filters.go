package rest

import (
	"net/url"
	"strconv"
)

// filter builds a single equality filter for a list read.
func filter(key string, id int64) url.Values {
	return url.Values{key: []string{strconv.FormatInt(id, 10)}}
}

// filterString builds a single string equality filter.
func filterString(key, value string) url.Values {
	return url.Values{key: []string{value}}
}
