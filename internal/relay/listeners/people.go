package listeners

// People serves user cards; uids arrive as a list and go out comma-joined.
var People = Domain{
	Name: "people",
	Endpoints: []Endpoint{
		{
			Query:  "getPeopleInfo",
			URL:    vcHost + "/account/v1/user/cards",
			Params: []Param{same("uids")},
		},
	},
}
