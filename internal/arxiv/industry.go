// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"strings"
	"unicode"
)

// industryKeywords are matched in order; the first hit wins.
var industryKeywords = []string{
	// China
	"alibaba", "taobao", "alimama", "ant group", "damo academy",
	"tencent", "wechat", "weixin",
	"bytedance", "tiktok", "douyin",
	"baidu",
	"jd.com", "jingdong", "京东",
	"meituan", "美团",
	"kuaishou", "快手",
	"huawei", "noah's ark",
	"xiaomi",
	"shopee", "sea group", "garena",
	"pinduoduo", "拼多多",
	"netease", "网易",
	"didi", "滴滴",
	"bilibili",
	// United States
	"google", "deepmind", "youtube", "alphabet",
	"meta", "facebook", "instagram",
	"amazon", "aws",
	"microsoft", "bing", "linkedin",
	"apple",
	"netflix",
	"spotify",
	"twitter", "x.com",
	"pinterest",
	"uber",
	"airbnb",
	"ebay",
	"snap", "snapchat",
	"nvidia",
	"openai",
	"salesforce",
	// Elsewhere
	"samsung",
	"naver",
	"kakao",
	"rakuten",
	"yahoo",
}

// industryDisplay maps a keyword to the company it stands for.
var industryDisplay = map[string]string{
	"alibaba": "Alibaba", "taobao": "Alibaba", "alimama": "Alibaba",
	"ant group": "Alibaba", "damo academy": "Alibaba",
	"tencent": "Tencent", "wechat": "Tencent", "weixin": "Tencent",
	"bytedance": "ByteDance", "tiktok": "ByteDance", "douyin": "ByteDance",
	"baidu":  "Baidu",
	"jd.com": "JD.com", "jingdong": "JD.com", "京东": "JD.com",
	"meituan": "Meituan", "美团": "Meituan",
	"kuaishou": "Kuaishou", "快手": "Kuaishou",
	"huawei": "Huawei", "noah's ark": "Huawei",
	"xiaomi": "Xiaomi",
	"shopee": "Shopee", "sea group": "Shopee", "garena": "Shopee",
	"pinduoduo": "Pinduoduo", "拼多多": "Pinduoduo",
	"netease": "NetEase", "网易": "NetEase",
	"didi": "DiDi", "滴滴": "DiDi",
	"bilibili": "Bilibili",
	"google":   "Google", "deepmind": "Google", "youtube": "Google",
	"alphabet": "Google",
	"meta":     "Meta", "facebook": "Meta", "instagram": "Meta",
	"amazon": "Amazon", "aws": "Amazon",
	"microsoft": "Microsoft", "bing": "Microsoft", "linkedin": "Microsoft",
	"apple":     "Apple",
	"netflix":   "Netflix",
	"spotify":   "Spotify",
	"twitter":   "Twitter/X",
	"pinterest": "Pinterest",
	"uber":      "Uber",
	"airbnb":    "Airbnb",
	"ebay":      "eBay",
	"snap":      "Snap", "snapchat": "Snap",
	"nvidia":     "NVIDIA",
	"openai":     "OpenAI",
	"salesforce": "Salesforce",
	"samsung":    "Samsung",
	"naver":      "Naver",
	"kakao":      "Kakao",
	"rakuten":    "Rakuten",
	"yahoo":      "Yahoo",
}

// DetectIndustry returns the company a paper appears to come from, judged by
// plain substring matches over its affiliations, comment, and abstract.
// It returns "" for academic papers. Matching is deliberately loose: "meta"
// also hits "metadata".
func DetectIndustry(affiliations []string, abstract, comment string) string {
	haystack := strings.ToLower(strings.Join(affiliations, " ") + " " + comment + " " + abstract)
	for _, kw := range industryKeywords {
		if strings.Contains(haystack, kw) {
			if name, ok := industryDisplay[kw]; ok {
				return name
			}
			return titleCase(kw)
		}
	}
	return ""
}

// titleCase upper-cases every letter that follows a non-letter.
func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		if !prevLetter {
			r = unicode.ToUpper(r)
		}
		b.WriteRune(r)
		prevLetter = unicode.IsLetter(r)
	}
	return b.String()
}
