package api

import "net/url"

const (
	companyEndpoint = "/company"
	projectEndpoint = "/project"
	taskEndpoint    = "/task"
)

func byID(endpoint, id string) string {
	return endpoint + "/" + url.PathEscape(id)
}
