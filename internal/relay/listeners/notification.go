package listeners

const vcHost = "https://api.vc.bilibili.com"

// Notification serves unread counters for the top bar.
var Notification = Domain{
	Name: "notification",
	Endpoints: []Endpoint{
		{Query: "getUnreadMsg", URL: apiHost + "/x/msgfeed/unread"},
		{Query: "getUnreadDm", URL: vcHost + "/session_svr/v1/session_svr/single_unread"},
	},
}
