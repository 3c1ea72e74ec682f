package domain

type DocumentKind string

const (
	DocumentPolicy DocumentKind = "policy"
	DocumentBill   DocumentKind = "bill"
)

func (k DocumentKind) Title() string {
	switch k {
	case DocumentPolicy:
		return "Policy Wording"
	case DocumentBill:
		return "Discharge Summary / Bill"
	default:
		return string(k)
	}
}

type Document struct {
	Kind DocumentKind
	Name string
	Data []byte
}

func (d *Document) Empty() bool {
	return d == nil || len(d.Data) == 0
}

func (d *Document) Size() int {
	if d == nil {
		return 0
	}
	return len(d.Data)
}
