package listeners

// User serves the signed-in user's profile.
var User = Domain{
	Name: "user",
	Endpoints: []Endpoint{
		{Query: "getUserInfo", URL: apiHost + "/x/web-interface/nav"},
		{Query: "getUserStat", URL: apiHost + "/x/web-interface/nav/stat"},
		{
			Query:  "getUserCard",
			URL:    apiHost + "/x/web-interface/card",
			Fixed:  fixed("photo", "true"),
			Params: []Param{same("mid")},
		},
	},
}
