package rest

const (
	// api
	RouteApiV1 = "/api/v1"

	// auth
	RouteAuth     = RouteApiV1 + "/auth"
	RouteLogin    = RouteAuth + "/login"
	RouteRegister = RouteAuth + "/register"
	RouteLogout   = RouteAuth + "/logout"
	RouteMe       = RouteAuth + "/me"

	// users
	RouteUsers       = RouteApiV1 + "/users"
	RouteUsersSearch = RouteUsers + "/search"
	RouteUsersStats  = RouteUsers + "/stats"
	RouteUser        = RouteUsers + "/:user_id"
	RouteUserRestore = RouteUser + "/restore"
	RouteUserPurge   = RouteUser + "/purge"

	// roles
	RouteRoles = RouteApiV1 + "/roles"
	RouteRole  = RouteRoles + "/:role"

	// ops
	RouteHealth  = RouteApiV1 + "/healthz"
	RouteMetrics = RouteApiV1 + "/metrics"
)
