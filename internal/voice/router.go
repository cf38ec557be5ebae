package voice

import "strings"

const (
	IntentWeather  = "weather"
	IntentSchemes  = "schemes"
	IntentNavigate = "navigate"
	IntentMarket   = "market"
	IntentHelp     = "help"
	IntentUnknown  = "unknown"

	ActionNavigate = "navigate"
	ActionHelp     = "help"
)

// Result tells the client what a spoken command asked for.
type Result struct {
	Intent   string            `json:"intent"`
	Response string            `json:"response"`
	Action   string            `json:"action"`
	Data     map[string]string `json:"data"`
}

type rule struct {
	keywords []string
	result   Result
}

func navigate(intent, response, path string) Result {
	return Result{Intent: intent, Response: response, Action: ActionNavigate, Data: map[string]string{"path": path}}
}

// rules are checked in order; the first rule with a matching keyword wins.
var rules = []rule{
	{
		keywords: []string{"weather", "मौसम", "వాతావరణం"},
		result:   navigate(IntentWeather, "Here is the current weather information for your location.", "/weather"),
	},
	{
		keywords: []string{"scheme", "योजना", "పథకం"},
		result:   navigate(IntentSchemes, "Here are the government schemes available for you.", "/schemes"),
	},
	{
		keywords: []string{"profile", "प्रोफाइल", "ప్రొఫైల్"},
		result:   navigate(IntentNavigate, "Opening your profile page.", "/profile"),
	},
	{
		keywords: []string{"dashboard", "डैशबोर्ड", "డాష్\u200cబోర్డ్"},
		result:   navigate(IntentNavigate, "Opening your dashboard.", "/dashboard"),
	},
	{
		keywords: []string{"market", "price", "बाजार", "దరలు"},
		result:   navigate(IntentMarket, "Here are the current market prices for agricultural products.", "/market"),
	},
	{
		keywords: []string{"help", "मदद", "సహాయం"},
		result: Result{
			Intent:   IntentHelp,
			Response: "I can help you check weather, view schemes, navigate to your profile, or check market prices. Just say what you need!",
			Action:   ActionHelp,
		},
	},
}

var fallback = Result{
	Intent:   IntentUnknown,
	Response: "I can help you with weather information, government schemes, profile updates, market prices, or navigation. What would you like to know?",
	Action:   ActionHelp,
}

// Route maps a transcribed voice command to an intent. English, Hindi and
// Telugu keywords are recognised.
func Route(command string) Result {
	lower := strings.ToLower(command)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return clone(r.result)
			}
		}
	}
	return clone(fallback)
}

func clone(r Result) Result {
	data := make(map[string]string, len(r.Data))
	for k, v := range r.Data {
		data[k] = v
	}
	r.Data = data
	return r
}
