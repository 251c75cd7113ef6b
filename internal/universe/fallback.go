package universe

import "github.com/mlefloch/stockscout/internal/contracts"

// Curated fallback membership per segment, used whenever the remote source
// fails. The lists are maintained by hand and are never empty; serving them
// is degraded-but-authoritative service, not an error.

var fallbackLargeCapUS = []contracts.TickerID{
	"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA", "BRK-B", "V", "JNJ",
	"WMT", "MA", "PG", "UNH", "HD", "DIS", "BAC", "ADBE", "PYPL", "NFLX",
	"CMCSA", "PFE", "KO", "PEP", "TMO", "COST", "AVGO", "CSCO", "ABT", "MRK",
	"NKE", "ACN", "TXN", "QCOM", "DHR", "VZ", "LIN", "PM", "NEE", "HON",
	"UPS", "RTX", "LOW", "INTU", "SPGI", "AMGN", "DE", "BKNG", "AXP", "SBUX",
}

var fallbackTechUS = []contracts.TickerID{
	"AAPL", "MSFT", "GOOGL", "GOOG", "AMZN", "NVDA", "META", "TSLA", "AVGO", "COST",
	"NFLX", "AMD", "PEP", "ADBE", "CSCO", "CMCSA", "INTC", "TXN", "QCOM", "INTU",
	"AMGN", "ISRG", "AMAT", "BKNG", "SBUX", "ADI", "VRSK", "LRCX", "KLAC", "SNPS",
	"CDNS", "CTAS", "WDAY", "PAYX", "NXPI", "FTNT", "TEAM", "ANSS", "FAST", "DXCM",
}

var fallbackBlueChipUS = []contracts.TickerID{
	"AAPL", "MSFT", "UNH", "GS", "HD", "CAT", "MCD", "AMGN", "V", "HON",
	"TRV", "AXP", "IBM", "JPM", "WMT", "CVX", "MRK", "PG", "BA", "DIS",
	"DOW", "NKE", "JNJ", "CSCO", "VZ", "INTC", "CRM", "AMZN",
}

var fallbackEurope = []contracts.TickerID{
	// France
	"MC.PA", "OR.PA", "TTE.PA", "AIR.PA", "BNP.PA", "GLE.PA", "STM.PA", "SU.PA",
	"DG.PA", "EL.PA", "KER.PA", "VIE.PA", "AI.PA", "ATO.PA", "CS.PA", "CAP.PA",
	"CA.PA", "ACA.PA", "BN.PA", "ENGI.PA", "ERF.PA", "RMS.PA", "RNO.PA", "SAF.PA",
	"SAN.PA", "SW.PA", "TEP.PA", "HO.PA", "ML.PA", "WLN.PA", "LR.PA",
	// Germany
	"SAP.DE", "SIE.DE", "ALV.DE", "BAS.DE", "BAYN.DE", "BMW.DE", "CON.DE", "1COV.DE",
	"DBK.DE", "DPW.DE", "DTE.DE", "EOAN.DE", "FRE.DE", "HEN3.DE",
	"IFX.DE", "LIN.DE", "MRK.DE", "MUV2.DE", "RWE.DE", "SY1.DE", "VOW3.DE",
	"VNA.DE", "ZAL.DE", "ADS.DE", "HEI.DE",
	// Netherlands
	"ASML.AS", "ADYEN.AS", "INGA.AS", "PHIA.AS", "UNA.AS", "AD.AS", "AGN.AS", "AKZA.AS",
	"ASM.AS", "DSM.AS", "HEIA.AS", "IMCD.AS", "KPN.AS", "NN.AS", "RAND.AS", "REN.AS",
	// Spain
	"SAN.MC", "BBVA.MC", "ITX.MC", "REP.MC", "TEF.MC", "IBE.MC", "FER.MC", "ENG.MC",
	"CABK.MC", "ELE.MC", "GRF.MC", "IAG.MC", "MAP.MC", "NTGY.MC", "RED.MC",
	// Italy
	"ENEL.MI", "ENI.MI", "ISP.MI", "STLA.MI", "UCG.MI", "ATL.MI", "AZM.MI",
	"BGN.MI", "BPE.MI", "CPR.MI", "DIA.MI", "ERG.MI",
	// UK
	"GSK.L", "RIO.L", "VOD.L", "BP.L", "BT.L", "BATS.L", "BA.L",
	"BARC.L", "BDEV.L", "BLND.L", "BNZL.L", "BRBY.L", "CCH.L", "CPG.L", "CRDA.L",
	// Switzerland
	"NOVN.SW", "ROG.SW", "UBSG.SW", "NESN.SW", "ABBN.SW",
	// Nordics
	"ORSTED.CO", "DSV.CO", "CARL-B.CO", "NOVO-B.CO",
	"EQNR.OL", "DNB.OL", "TEL.OL",
	"ASSA-B.ST", "ATCO-A.ST", "ATCO-B.ST", "AZN.ST",
}

var fallbackEmerging = []contracts.TickerID{
	// Brazil
	"VALE", "PBR", "ITUB", "BBD", "ABEV", "SID", "ERJ", "GOL",
	// China ADRs
	"BABA", "JD", "PDD", "NIO", "XPEV", "LI", "BIDU", "TME", "WB", "BILI",
	"TAL", "EDU", "VIPS", "YMM", "TCOM", "BZ",
	// India
	"INFY", "WIT", "HDB", "IBN", "TTM",
	// South Korea
	"005930.KS", "000660.KS", "035420.KS", "051910.KS", "006400.KS",
	// Taiwan
	"TSM", "UMC", "ASX", "CHT",
	// South Africa
	"GFI", "ANG",
	// Mexico
	"AMX", "CX", "TV", "ASR",
	// Turkey
	"TKC", "AKBNK.IS", "GARAN.IS",
	// Indonesia
	"BBRI.JK", "BMRI.JK", "BBCA.JK",
	// Thailand
	"PTT.BK", "KBANK.BK", "SCB.BK",
}

var fallbackAsiaPacific = []contracts.TickerID{
	// Japan
	"7203.T", "6758.T", "9984.T", "6861.T", "6098.T", "8035.T", "8306.T",
	"4503.T", "4063.T", "8058.T", "9434.T", "7267.T", "6501.T", "4568.T",
	"7741.T", "6954.T", "7974.T", "8801.T", "8411.T", "4661.T",
	// Australia
	"CBA.AX", "WDS.AX", "BHP", "RIO", "ANZ.AX", "WBC.AX", "NAB.AX",
	"TLS.AX", "CSL.AX", "FMG.AX", "GMG.AX", "WOW.AX", "STO.AX",
	"QAN.AX", "ORG.AX", "S32.AX",
	// New Zealand
	"AIA.NZ", "FPH.NZ",
	// Singapore
	"D05.SI", "O39.SI", "U11.SI", "Z74.SI",
	// Hong Kong
	"0700.HK", "0941.HK", "1299.HK", "2318.HK", "1398.HK",
}

var fallbackCanada = []contracts.TickerID{
	"RY.TO", "TD.TO", "BNS.TO", "CNR.TO", "CP.TO", "SHOP.TO", "BMO.TO",
	"CM.TO", "TRP.TO", "ENB.TO", "SU.TO", "IMO.TO", "CNQ.TO", "WCN.TO",
	"ATD.TO", "L.TO", "GIB-A.TO", "CSU.TO", "MFC.TO", "SLF.TO",
}

var fallbacks = map[contracts.Segment][]contracts.TickerID{
	contracts.SegmentLargeCapUS:  fallbackLargeCapUS,
	contracts.SegmentTechUS:      fallbackTechUS,
	contracts.SegmentBlueChipUS:  fallbackBlueChipUS,
	contracts.SegmentEurope:      fallbackEurope,
	contracts.SegmentEmerging:    fallbackEmerging,
	contracts.SegmentAsiaPacific: fallbackAsiaPacific,
	contracts.SegmentCanada:      fallbackCanada,
}

// Fallback returns a copy of the curated list for a segment.
func Fallback(segment contracts.Segment) []contracts.TickerID {
	src := fallbacks[segment]
	out := make([]contracts.TickerID, len(src))
	copy(out, src)
	return out
}
