package a2s

// Rule is a name/value pair from an A2S_RULES response.
type Rule struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Rules is a decoded A2S_RULES response.
type Rules struct {
	Rules []Rule `json:"rules"`

	// Remaining holds the bytes of a rule cut off by servers that truncate the
	// response to one packet. It is only non-empty when the rules stopped before the payload end.
	Remaining string `json:"remaining,omitempty"`

	Count int16 `json:"count"`
}

// DecodeRules decodes an A2S_RULES payload (the bytes after the 'E' tag).
func DecodeRules(payload []byte) (*Rules, error) {
	r := newReader(payload)

	count, err := r.int16("rule count")
	if err != nil {
		return nil, err
	}

	// A negative count puts no bound on the pairs read.
	res := &Rules{Count: count, Rules: []Rule{}}
	for i := 0; count < 0 || i < int(count); i++ {
		if count < 0 && r.empty() {
			break
		}
		mark := r.off
		rule, err := readRule(r)
		if err != nil {
			r.off = mark
			break
		}
		res.Rules = append(res.Rules, rule)
	}

	if len(res.Rules) == int(count) || (count < 0 && r.empty()) {
		if err := r.finish("end of RULES"); err != nil {
			return nil, err
		}
		return res, nil
	}

	res.Remaining = decodeString(r.rest())

	return res, nil
}

func readRule(r *reader) (Rule, error) {
	var (
		rule Rule
		err  error
	)

	if rule.Name, err = r.cstring("rule name"); err != nil {
		return rule, err
	}
	if rule.Value, err = r.cstring("rule value"); err != nil {
		return rule, err
	}

	return rule, nil
}
