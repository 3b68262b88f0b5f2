package classifier

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// 특수 목적 카테고리 이름
const (
	CategoryAllowOnly      = "Allow only"
	CategoryGlobalBlockAll = "Global Block All"
	CategoryUncategorized  = "Uncategorized"
	CategoryEducation      = "General / Education"
	CategoryBlogs          = "Blogs"
)

// Categories 분류기가 다루는 전체 카테고리 목록입니다.
// 점수가 같을 때의 우선순위는 이 목록의 순서를 따릅니다.
var Categories = []string{
	"Advertising",
	"AI Chatbots & Tools",
	"App Stores & System Updates",
	"Blogs",
	"Built-in Apps",
	"Collaboration",
	"Drugs & Alcohol",
	"Ecommerce",
	"Entertainment",
	"Gambling",
	"Games",
	"General / Education",
	"Health & Medicine",
	"Illegal, Malicious, or Hacking",
	"Religion",
	"Sexual Content",
	"Social Media",
	"Sports & Hobbies",
	"Streaming Services",
	"Weapons",
	"Uncategorized",
	"Allow only",
	"Global Block All",
}

// keywords 카테고리별 판별 키워드입니다. URL, 호스트, 도메인, 페이지 본문에서
// 부분 문자열로 탐색됩니다.
var keywords = map[string][]string{
	"AI Chatbots & Tools":            {"chatgpt", "openai", "bard", "claude", "copilot", "perplexity.ai", "writesonic", "midjourney"},
	"Social Media":                   {"tiktok", "instagram", "snapchat", "facebook", "x.com", "twitter", "reddit", "discord", "tumblr", "be.real"},
	"Games":                          {"roblox", "fortnite", "minecraft", "epicgames", "leagueoflegends", "steam", "twitch", "itch.io", "riot games"},
	"Ecommerce":                      {"amazon", "ebay", "walmart", "bestbuy", "aliexpress", "etsy", "shopify", "mercado libre", "target.com"},
	"Streaming Services":             {"netflix", "spotify", "hulu", "vimeo", "twitch", "soundcloud", "peacocktv", "max.com", "disneyplus"},
	"Sexual Content":                 {"porn", "xxx", "xvideos", "redtube", "xnxx", "brazzers", "onlyfans", "camgirl", "pornhub"},
	"Gambling":                       {"casino", "sportsbook", "bet", "poker", "slot", "roulette", "draftkings", "fanduel"},
	"Illegal, Malicious, or Hacking": {"warez", "piratebay", "crack download", "keygen", "free movies streaming", "sql injection", "ddos", "cheat engine"},
	"Drugs & Alcohol":                {"buy weed", "vape", "nicotine", "delta-8", "kratom", "bong", "vodka", "whiskey", "winery", "brewery"},
	"Collaboration":                  {"gmail", "outlook", "office 365", "onedrive", "teams", "slack", "zoom", "google docs", "google drive", "meet.google"},
	"General / Education":            {"wikipedia", "news", "encyclopedia", "khan academy", "nasa.gov", ".edu"},
	"Sports & Hobbies":               {"espn", "nba", "nfl", "mlb", "nhl", "cars", "boats", "aircraft"},
	"App Stores & System Updates":    {"play.google", "apps.apple", "microsoft store", "firmware update", "drivers download"},
	"Advertising":                    {"ads.txt", "adserver", "doubleclick", "adchoices", "advertising"},
	"Blogs":                          {"wordpress", "blogger", "wattpad", "joomla", "drupal", "medium"},
	"Health & Medicine":              {"patient portal", "glucose", "fitbit", "apple health", "pharmacy", "telehealth"},
	"Religion":                       {"church", "synagogue", "mosque", "bible study", "quran", "sermon"},
	"Weapons":                        {"knife", "guns", "rifle", "ammo", "silencer", "tactical"},
	"Entertainment":                  {"tv shows", "movies", "anime", "cartoons", "jokes", "memes"},
	"Built-in Apps":                  {"calculator", "camera", "clock", "files app"},
	"Allow only":                     {"canvas", "k12", "instructure.com"},
}

// Result URL 분류 결과입니다.
type Result struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Domain     string  `json:"domain"`
	Host       string  `json:"host"`
}

// Classify URL과 선택적 페이지 본문 텍스트로 카테고리를 판정합니다.
//
// URL, 호스트, 등록 가능 도메인, 본문 텍스트를 대상으로 키워드 점수를 매기고,
// "Allow only" 키워드가 하나라도 맞으면 최우선으로 그 카테고리를 택합니다.
// 점수가 전혀 없으면 "Uncategorized"이며, 신뢰도는 전체 점수 대비
// 최고 카테고리 점수의 비율입니다.
func Classify(rawURL, bodyText string) Result {
	host, domain := extractHostDomain(rawURL)

	tokens := []string{strings.ToLower(rawURL), host, domain}
	if bodyText != "" {
		tokens = append(tokens, strings.ToLower(bodyText))
	}

	scores := make(map[string]int, len(Categories))
	for cat, kws := range keywords {
		for _, kw := range kws {
			for _, t := range tokens {
				if strings.Contains(t, kw) {
					scores[cat]++
				}
			}
		}
	}

	// 도메인 기반 가중치
	if strings.Contains(domain, "edu") {
		scores[CategoryEducation] += 3
	}
	loweredURL := strings.ToLower(rawURL)
	if strings.Contains(loweredURL, "wp-login") || strings.Contains(loweredURL, "/wp-content/") {
		scores[CategoryBlogs]++
	}

	best := CategoryUncategorized
	if scores[CategoryAllowOnly] > 0 {
		best = CategoryAllowOnly
	} else {
		bestScore := 0
		for _, cat := range Categories {
			if scores[cat] > bestScore {
				best = cat
				bestScore = scores[cat]
			}
		}
	}

	total := 0
	for _, s := range scores {
		total += s
	}
	if total == 0 {
		total = 1
	}

	return Result{
		Category:   best,
		Confidence: float64(scores[best]) / float64(total),
		Domain:     domain,
		Host:       host,
	}
}

// extractHostDomain URL에서 호스트명과 등록 가능 도메인(eTLD+1)을 추출합니다.
// 스킴이 없는 입력은 https로 간주하며, 공개 접미사 판정에 실패하면
// 호스트명을 도메인으로 사용합니다.
func extractHostDomain(rawURL string) (host, domain string) {
	rawURL = strings.TrimSpace(rawURL)
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		rawURL = "https://" + rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "", ""
	}

	host = strings.ToLower(u.Hostname())

	domain, err = publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		domain = host
	}

	return host, domain
}
