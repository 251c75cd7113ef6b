package contracts

// TickerID identifies one tradable instrument on one exchange. The same
// issuer listed on two exchanges is two distinct TickerIDs ("SAN.PA" and
// "SAN.MC" are different instruments). Comparison is exact: case and
// exchange suffix both matter.
type TickerID string

func (t TickerID) String() string { return string(t) }

// Segment names one market segment of the scan universe.
type Segment string

const (
	SegmentLargeCapUS  Segment = "large-cap-us"  // S&P 500
	SegmentTechUS      Segment = "tech-us"       // NASDAQ 100
	SegmentBlueChipUS  Segment = "blue-chip-us"  // Dow Jones
	SegmentEurope      Segment = "europe"        // Euro Stoxx 600
	SegmentEmerging    Segment = "emerging"      // BRICS and others
	SegmentAsiaPacific Segment = "asia-pacific"  // Japan, Australia, HK, SG
	SegmentCanada      Segment = "canada"        // TSX 60
)

// AllSegments lists every scannable segment in fetch order.
func AllSegments() []Segment {
	return []Segment{
		SegmentLargeCapUS,
		SegmentTechUS,
		SegmentBlueChipUS,
		SegmentEurope,
		SegmentEmerging,
		SegmentAsiaPacific,
		SegmentCanada,
	}
}
