package i18n

// Translator resolves UI strings for a selected language, falling back
// to English and then to the key itself.
type Translator struct {
	lang string
}

// New creates a translator for the given language tag. Unknown tags fall
// back to English.
func New(lang string) *Translator {
	if _, ok := tables[lang]; !ok {
		lang = "en"
	}
	return &Translator{lang: lang}
}

// Language returns the active language tag.
func (t *Translator) Language() string {
	return t.lang
}

// T resolves a key in the active language.
func (t *Translator) T(key string) string {
	if s, ok := tables[t.lang][key]; ok {
		return s
	}
	if s, ok := tables["en"][key]; ok {
		return s
	}
	return key
}

// Languages lists the supported language tags.
func Languages() []string {
	return []string{"en", "zh-TW", "zh-CN", "vi"}
}

var tables = map[string]map[string]string{
	"en": {
		"app.title":              "FoodRescue",
		"login.title":            "Sign in",
		"login.google":           "Continue with Google",
		"login.facebook":         "Continue with Facebook",
		"login.phone":            "Continue with phone",
		"login.wallet":           "Connect wallet",
		"login.failed":           "Login failed",
		"register.title":         "Phone registration",
		"register.enter_phone":   "Enter your phone number",
		"register.send_code":     "Send code",
		"register.resend":        "Resend code",
		"register.enter_code":    "Enter the 6-digit code",
		"register.verify":        "Verify",
		"register.change_phone":  "Change phone number",
		"home.title":             "Rescue deals",
		"home.empty":             "No deals nearby right now.",
		"home.buy":               "Rescue this",
		"setup.title":            "Set up your shop",
		"setup.submit":           "Open shop",
		"notifications.title":    "Notifications",
		"notifications.empty":    "You're all caught up.",
		"search.title":           "Find merchants",
		"search.placeholder":     "Shop name",
		"favorites.title":        "Favorite shops",
		"favorites.empty":        "No favorites yet.",
		"merchant.reviews":       "Reviews",
		"merchant.favorite":      "Favorite",
		"merchant.unfavorite":    "Unfavorite",
		"error.network":          "Network error. Please check your connection and try again.",
		"error.generic":          "Something went wrong. Please try again.",
	},
	"zh-TW": {
		"app.title":              "食物救援",
		"login.title":            "登入",
		"login.google":           "使用 Google 繼續",
		"login.facebook":         "使用 Facebook 繼續",
		"login.phone":            "使用手機號碼繼續",
		"login.wallet":           "連接錢包",
		"login.failed":           "登入失敗",
		"register.title":         "手機註冊",
		"register.enter_phone":   "請輸入手機號碼",
		"register.send_code":     "傳送驗證碼",
		"register.resend":        "重新傳送",
		"register.enter_code":    "請輸入 6 位數驗證碼",
		"register.verify":        "驗證",
		"register.change_phone":  "更換手機號碼",
		"home.title":             "即期優惠",
		"home.empty":             "目前附近沒有優惠。",
		"home.buy":               "搶救它",
		"setup.title":            "設定您的店鋪",
		"setup.submit":           "開店",
		"notifications.title":    "通知",
		"notifications.empty":    "目前沒有新通知。",
		"search.title":           "尋找商家",
		"search.placeholder":     "店鋪名稱",
		"favorites.title":        "收藏的店鋪",
		"favorites.empty":        "尚無收藏。",
		"merchant.reviews":       "評價",
		"merchant.favorite":      "收藏",
		"merchant.unfavorite":    "取消收藏",
		"error.network":          "網路錯誤，請檢查連線後再試一次。",
		"error.generic":          "發生錯誤，請再試一次。",
	},
	"zh-CN": {
		"app.title":              "食物救援",
		"login.title":            "登录",
		"login.google":           "使用 Google 继续",
		"login.facebook":         "使用 Facebook 继续",
		"login.phone":            "使用手机号继续",
		"login.wallet":           "连接钱包",
		"login.failed":           "登录失败",
		"register.title":         "手机注册",
		"register.enter_phone":   "请输入手机号",
		"register.send_code":     "发送验证码",
		"register.resend":        "重新发送",
		"register.enter_code":    "请输入 6 位验证码",
		"register.verify":        "验证",
		"register.change_phone":  "更换手机号",
		"home.title":             "临期优惠",
		"home.empty":             "附近暂时没有优惠。",
		"home.buy":               "抢救它",
		"setup.title":            "设置您的店铺",
		"setup.submit":           "开店",
		"notifications.title":    "通知",
		"notifications.empty":    "暂无新通知。",
		"search.title":           "查找商家",
		"search.placeholder":     "店铺名称",
		"favorites.title":        "收藏的店铺",
		"favorites.empty":        "暂无收藏。",
		"merchant.reviews":       "评价",
		"merchant.favorite":      "收藏",
		"merchant.unfavorite":    "取消收藏",
		"error.network":          "网络错误，请检查连接后重试。",
		"error.generic":          "出错了，请重试。",
	},
	"vi": {
		"app.title":              "FoodRescue",
		"login.title":            "Đăng nhập",
		"login.google":           "Tiếp tục với Google",
		"login.facebook":         "Tiếp tục với Facebook",
		"login.phone":            "Tiếp tục với số điện thoại",
		"login.wallet":           "Kết nối ví",
		"login.failed":           "Đăng nhập thất bại",
		"register.title":         "Đăng ký bằng số điện thoại",
		"register.enter_phone":   "Nhập số điện thoại của bạn",
		"register.send_code":     "Gửi mã",
		"register.resend":        "Gửi lại mã",
		"register.enter_code":    "Nhập mã 6 chữ số",
		"register.verify":        "Xác minh",
		"register.change_phone":  "Đổi số điện thoại",
		"home.title":             "Ưu đãi giải cứu",
		"home.empty":             "Hiện chưa có ưu đãi nào gần đây.",
		"home.buy":               "Giải cứu ngay",
		"setup.title":            "Thiết lập cửa hàng",
		"setup.submit":           "Mở cửa hàng",
		"notifications.title":    "Thông báo",
		"notifications.empty":    "Bạn đã xem hết thông báo.",
		"search.title":           "Tìm cửa hàng",
		"search.placeholder":     "Tên cửa hàng",
		"favorites.title":        "Cửa hàng yêu thích",
		"favorites.empty":        "Chưa có cửa hàng yêu thích.",
		"merchant.reviews":       "Đánh giá",
		"merchant.favorite":      "Yêu thích",
		"merchant.unfavorite":    "Bỏ yêu thích",
		"error.network":          "Lỗi mạng. Vui lòng kiểm tra kết nối và thử lại.",
		"error.generic":          "Đã xảy ra lỗi. Vui lòng thử lại.",
	},
}
