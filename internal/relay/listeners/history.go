package listeners

// History serves the watch history.
var History = Domain{
	Name: "history",
	Endpoints: []Endpoint{
		{
			Query:  "getHistoryList",
			URL:    apiHost + "/x/web-interface/history/cursor",
			Fixed:  fixed("ps", "20"),
			Params: []Param{same("type"), as("viewAt", "view_at")},
		},
		{
			Query:  "searchHistoryList",
			URL:    apiHost + "/x/web-goblin/history/search",
			Fixed:  fixed("business", "all"),
			Params: []Param{same("pn"), same("keyword")},
		},
		{Query: "getHistoryPauseStatus", URL: apiHost + "/x/v2/history/shadow"},
	},
}
