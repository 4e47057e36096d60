package listeners

// Search serves the search box suggestions.
var Search = Domain{
	Name: "search",
	Endpoints: []Endpoint{
		{
			Query:  "getSearchSuggestion",
			URL:    "https://s.search.bilibili.com/main/suggest",
			Fixed:  fixed("mode", "rec"),
			Params: []Param{as("keyword", "term")},
		},
	},
}
