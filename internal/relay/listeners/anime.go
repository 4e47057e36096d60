package listeners

// Anime serves the bangumi pages.
var Anime = Domain{
	Name: "anime",
	Endpoints: []Endpoint{
		{
			// the upstream parameter really is spelled "coursor"
			Query:  "getRecommendAnimeList",
			URL:    apiHost + "/pgc/page/web/v3/feed",
			Fixed:  fixed("name", "anime"),
			Params: []Param{same("coursor")},
		},
		{
			Query:  "getAnimeWatchList",
			URL:    apiHost + "/x/space/bangumi/follow/list",
			Fixed:  fixed("type", "1"),
			Params: []Param{same("vmid"), same("pn"), same("ps")},
		},
		{
			Query: "getPopularAnimeList",
			URL:   apiHost + "/pgc/web/rank/list",
			Fixed: fixed("day", "3", "season_type", "1"),
		},
		{Query: "getAnimeTimeTable", URL: apiHost + "/pgc/web/timeline/v2"},
		{
			Query:  "getAnimeDetail",
			URL:    apiHost + "/pgc/view/web/season",
			Params: []Param{as("seasonId", "season_id")},
		},
	},
}
