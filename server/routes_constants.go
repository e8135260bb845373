package server

// Route path constants
const (
	RouteRoot     = "/{$}"
	RouteLogin    = "/login"
	RouteFetch    = "/fetch"
	RouteMe       = "/me"
	RouteDownload = "/download"
	RouteUpload   = "/upload"
)
