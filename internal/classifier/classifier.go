package classifier

import "strings"

// PlatformTag identifies which source platform a submitted link belongs to.
type PlatformTag int

const (
	NotAURL PlatformTag = iota
	Unsupported
	YouTube
	TikTok
	Instagram
	VK
)

func (t PlatformTag) String() string {
	switch t {
	case YouTube:
		return "youtube"
	case TikTok:
		return "tiktok"
	case Instagram:
		return "instagram"
	case VK:
		return "vk"
	case NotAURL:
		return "not_a_url"
	default:
		return "unsupported"
	}
}

// Supported reports whether the tag names a platform the bot can download from.
func (t PlatformTag) Supported() bool {
	switch t {
	case YouTube, TikTok, Instagram, VK:
		return true
	default:
		return false
	}
}

// platformSubstrings is matched by substring containment over the full URL,
// not by strict host parsing. This is intentionally permissive and mirrors the
// bot's historical behavior; order matters only for readability.
var platformSubstrings = []struct {
	substr string
	tag    PlatformTag
}{
	{"youtube.com", YouTube},
	{"youtu.be", YouTube},
	{"vm.tiktok.com", TikTok},
	{"tiktok.com", TikTok},
	{"instagram.com", Instagram},
	{"vk.com", VK},
}

// Classify decides whether text is a syntactically acceptable, supported media
// URL and which platform it belongs to. Pure and deterministic.
func Classify(text string) PlatformTag {
	lower := strings.ToLower(strings.TrimSpace(text))

	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return NotAURL
	}

	for _, p := range platformSubstrings {
		if strings.Contains(lower, p.substr) {
			return p.tag
		}
	}

	return Unsupported
}
