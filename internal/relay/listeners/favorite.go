package listeners

// Favorite serves favorite folders and their contents.
var Favorite = Domain{
	Name: "favorite",
	Endpoints: []Endpoint{
		{
			Query:  "getFavoriteCategories",
			URL:    apiHost + "/x/v3/fav/folder/created/list-all",
			Params: []Param{as("mid", "up_mid")},
		},
		{
			Query:  "getFavoriteResources",
			URL:    apiHost + "/x/v3/fav/resource/list",
			Fixed:  fixed("ps", "20"),
			Params: []Param{as("mediaId", "media_id"), same("pn"), same("keyword")},
		},
	},
}
