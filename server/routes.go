package server

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET "+RouteRoot, ChainMiddleware(s.IndexHandler(), s.BaseMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteLogin, ChainMiddleware(s.LoginHandler(), s.BaseMiddleware()...))

	// Protected routes
	s.RegisterRouteHandler("GET "+RouteFetch, ChainMiddleware(s.FetchHandler(), s.BaseMiddleware(s.RequireSession())...))
	s.RegisterRouteHandler("GET "+RouteMe, ChainMiddleware(s.MeHandler(), s.BaseMiddleware(s.RequireSession())...))
	s.RegisterRouteHandler("GET "+RouteDownload, ChainMiddleware(s.DownloadHandler(), s.BaseMiddleware(s.RequireSession())...))
	s.RegisterRouteHandler("POST "+RouteUpload, ChainMiddleware(s.UploadHandler(), s.BaseMiddleware(s.RequireSession())...))

	// CORS preflight, answered before any session check
	for _, route := range []string{RouteLogin, RouteFetch, RouteMe, RouteDownload, RouteUpload} {
		s.RegisterRouteHandler("OPTIONS "+route, ChainMiddleware(s.PreflightHandler(), s.BaseMiddleware()...))
	}
}
