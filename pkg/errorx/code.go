package errorx

type Code uint64

var Unknown = Error{Code: 100000, Message: "Request failed"}

const (
	BadRequest      Code = 100001
	BadResponse     Code = 100002
	NotFound        Code = 100004
	Unauthenticated Code = 100005
	AlreadyExists   Code = 100006
	Internal        Code = 100007
	Unavailable     Code = 100008
	TooManyRequests Code = 100010
)
