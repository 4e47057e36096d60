package listeners

// Moment serves the dynamic feed shown in the top bar.
var Moment = Domain{
	Name: "moment",
	Endpoints: []Endpoint{
		{Query: "getNewMomentsCount", URL: apiHost + "/x/web-interface/dynamic/entrance"},
		{
			Query:  "getTopBarNewMoments",
			URL:    vcHost + "/dynamic_svr/v1/dynamic_svr/dynamic_new",
			Params: []Param{same("uid")},
		},
		{
			Query:  "getTopBarHistoryMoments",
			URL:    vcHost + "/dynamic_svr/v1/dynamic_svr/dynamic_history",
			Params: []Param{same("uid"), as("offsetDynamicID", "offset_dynamic_id")},
		},
		{
			Query:  "getTopBarLiveMoments",
			URL:    "https://api.live.bilibili.com/xlive/web-ucenter/v1/xfetter/FeedList",
			Params: []Param{same("page"), as("pageSize", "pagesize")},
		},
	},
}
