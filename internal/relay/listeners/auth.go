package listeners

const passportHost = "https://passport.bilibili.com"

// Auth serves the QR code login flow.
var Auth = Domain{
	Name: "auth",
	Endpoints: []Endpoint{
		{
			Query: "getLoginQRCode",
			URL:   passportHost + "/x/passport-login/web/qrcode/generate",
		},
		{
			Query:  "pollLoginQRCode",
			URL:    passportHost + "/x/passport-login/web/qrcode/poll",
			Params: []Param{as("qrcodeKey", "qrcode_key")},
		},
		{
			// third-party login hands back an access_key for the app feed
			Query: "getLoginConfirmUrl",
			URL:   passportHost + "/login/app/third",
			Fixed: fixed(
				"appkey", "27eb53fc9058f8c3",
				"api", "https://www.mcbbs.net/template/mcbbs/image/special_photo_bg.png",
				"sign", "04224646d1fea004e79606d3b038c84a",
			),
		},
	},
}
