package listeners

// Ranking serves the ranking boards.
var Ranking = Domain{
	Name: "ranking",
	Endpoints: []Endpoint{
		{
			Query:  "getRankingVideos",
			URL:    apiHost + "/x/web-interface/ranking/v2",
			Params: []Param{same("rid"), same("type")},
		},
		{
			Query:  "getRankingPgc",
			URL:    apiHost + "/pgc/season/rank/web/list",
			Fixed:  fixed("day", "3"),
			Params: []Param{as("seasonType", "season_type")},
		},
	},
}
