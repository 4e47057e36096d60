package listeners

const (
	apiHost = "https://api.bilibili.com"
	appHost = "https://app.bilibili.com"
)

var dislikeParams = []Param{
	as("accessKey", "access_key"),
	same("goto"),
	same("id"),
	same("mid"),
	as("reasonId", "reason_id"),
	same("rid"),
	as("tagId", "tag_id"),
}

// Video serves the recommendation feed and per-video lookups.
var Video = Domain{
	Name: "video",
	Endpoints: []Endpoint{
		{
			Query:  "getRecommendVideos",
			URL:    appHost + "/x/v2/feed/index",
			Fixed:  fixed("build", "1", "mobi_app", "android"),
			Params: []Param{same("idx"), as("accessKey", "access_key")},
		},
		{
			Query:  "getVideoInfo",
			URL:    apiHost + "/x/web-interface/view",
			Params: []Param{same("bvid")},
		},
		{
			Query:  "getVideoPreview",
			URL:    apiHost + "/x/player/videoshot",
			Fixed:  fixed("index", "1"),
			Params: []Param{same("bvid"), same("cid")},
		},
		{
			Query:  "dislikeVideo",
			URL:    appHost + "/x/feed/dislike",
			Params: dislikeParams,
		},
		{
			Query:  "undoDislikeVideo",
			URL:    appHost + "/x/feed/dislike/cancel",
			Params: dislikeParams,
		},
	},
}
