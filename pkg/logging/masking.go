// Package logging はログ関連のユーティリティを提供する。
package logging

// MaskToken はBearerトークンをマスキングする。
// 先頭4文字 + マスク + 末尾2文字
// 例: eyJhbGciOiJIUzI1NiJ9 → eyJh**************J9
// 8文字以下のトークンは全体をマスクする。
func MaskToken(token string) string {
	if token == "" {
		return ""
	}
	if len([]rune(token)) <= 8 {
		return MaskPartial(token, 0, 0, '*')
	}
	return MaskPartial(token, 4, 2, '*')
}

// MaskPartial は文字列の一部をマスキングする。
// keepPrefix: 先頭から保持する文字数
// keepSuffix: 末尾から保持する文字数
// maskChar: マスキングに使用する文字
func MaskPartial(s string, keepPrefix, keepSuffix int, maskChar rune) string {
	runes := []rune(s)
	length := len(runes)

	// 保持部分だけで全体を覆う場合はマスクしようがない
	if keepPrefix+keepSuffix > 0 && length <= keepPrefix+keepSuffix {
		return s
	}

	result := make([]rune, length)
	for i := range runes {
		if i < keepPrefix || i >= length-keepSuffix {
			result[i] = runes[i]
		} else {
			result[i] = maskChar
		}
	}
	return string(result)
}
