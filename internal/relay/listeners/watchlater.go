package listeners

// WatchLater serves the watch-later list.
var WatchLater = Domain{
	Name: "watchLater",
	Endpoints: []Endpoint{
		{Query: "getAllWatchLaterList", URL: apiHost + "/x/v2/history/toview"},
	},
}
