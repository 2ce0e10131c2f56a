package services

import (
	"strings"
	"unicode"
)

// bankSynonyms maps a canonical Thai bank code to the label variants seen on
// slips: abbreviations, full names, Thai names and common transliterations.
// bankCodes fixes the lookup order; map iteration would make normalization
// non-deterministic when a label brushes more than one entry.
var bankCodes = []string{
	"KBANK", "SCB", "BBL", "KTB", "BAY", "TTB", "GSB", "BAAC",
	"UOB", "CIMB", "KKP", "TISCO", "LH", "GHB", "PP",
}

var bankSynonyms = map[string][]string{
	"KBANK": {"kbank", "kasikorn", "kasikornbank", "กสิกร", "กสิกรไทย", "kplus"},
	"SCB":   {"scb", "siam commercial", "ไทยพาณิชย์"},
	"BBL":   {"bbl", "bangkok bank", "bangkokbank", "กรุงเทพ"},
	"KTB":   {"ktb", "krungthai", "krung thai", "กรุงไทย"},
	"BAY":   {"bay", "krungsri", "ayudhya", "กรุงศรี", "กรุงศรีอยุธยา"},
	"TTB":   {"ttb", "tmb", "tmbthanachart", "thanachart", "ทหารไทย", "ธนชาต", "ทีทีบี"},
	"GSB":   {"gsb", "government savings", "ออมสิน"},
	"BAAC":  {"baac", "ธกส", "ธ.ก.ส"},
	"UOB":   {"uob", "ยูโอบี"},
	"CIMB":  {"cimb", "ซีไอเอ็มบี"},
	"KKP":   {"kkp", "kiatnakin", "เกียรตินาคิน"},
	"TISCO": {"tisco", "ทิสโก้"},
	"LH":    {"lh bank", "lhbank", "แลนด์ แอนด์ เฮ้าส์"},
	"GHB":   {"ghb", "อาคารสงเคราะห์", "ธอส"},
	"PP":    {"promptpay", "prompt pay", "พร้อมเพย์"},
}

// NormalizeBankLabel reduces a bank label from a slip or the directory to a
// canonical code. Exact variant hits win over containment hits so a short
// fragment cannot shadow a full name. Unknown labels come back cleaned but
// un-coded.
func NormalizeBankLabel(label string) string {
	s := cleanBankLabel(label)
	if s == "" {
		return ""
	}
	for _, code := range bankCodes {
		if strings.EqualFold(s, code) {
			return code
		}
		for _, v := range bankSynonyms[code] {
			if s == cleanBankLabel(v) {
				return code
			}
		}
	}
	for _, code := range bankCodes {
		for _, v := range bankSynonyms[code] {
			cleaned := cleanBankLabel(v)
			if strings.Contains(s, cleaned) || strings.Contains(cleaned, s) {
				return code
			}
		}
	}
	return s
}

// BankLabelsMatch applies the slip-vs-directory bank identity rule: both
// labels are normalized and match when either form contains the other.
func BankLabelsMatch(slipLabel, cachedLabel string) bool {
	a, b := NormalizeBankLabel(slipLabel), NormalizeBankLabel(cachedLabel)
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func cleanBankLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		if unicode.IsSpace(r) || r == '.' || r == '-' || r == '_' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
