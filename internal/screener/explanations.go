package screener

// Menu help texts, one per sort option.
const (
	explainValueDivergence = "Value Divergence compares a stock's revenue growth to its price growth over the last 2-3 " +
		"years. Both are normalized to index 100 at the base year so they can be directly compared.\n\n" +
		"How it works: If a company's revenue grew 40% but its stock price only grew 10%, the " +
		"divergence score is positive — the business is growing faster than the market is pricing " +
		"in. This could mean the stock is undervalued.\n\n" +
		"Example: Stock A had revenue go from ₹1000 Cr to ₹1400 Cr (+40%), but price went from ₹500" +
		" to ₹550 (+10%). Revenue index = 140, Price index = 110. Score = +30. This stock appears " +
		"undervalued.\n\n" +
		"Higher score = more undervalued. Negative score = price grew faster than revenue " +
		"(potentially overvalued)."

	explainMarketCap = "Market Capitalization is the total market value of a company's outstanding shares. It's " +
		"calculated as: Share Price × Total Shares Outstanding.\n\n" +
		"How it works: Larger market cap means the company is valued higher by the market. " +
		"Large-cap companies (₹50,000+ Cr) are generally more stable. Mid-caps (₹10,000-50,000 Cr) " +
		"offer a balance of growth and stability. Small-caps (<₹10,000 Cr) can grow faster but " +
		"carry more risk.\n\n" +
		"Example: If a company has 10 crore shares at ₹500 each, its market cap is ₹5,000 Cr.\n\n" +
		"Sorting by market cap (high first) shows the biggest, most established companies at the " +
		"top."

	explainPE = "Price-to-Earnings (P/E) Ratio measures how much investors pay per rupee of earnings. It's " +
		"calculated as: Share Price ÷ Earnings Per Share (EPS).\n\n" +
		"How it works: A low P/E might mean the stock is undervalued — you're paying less for each " +
		"rupee of profit. A high P/E could mean the stock is overpriced, OR that investors expect " +
		"high future growth.\n\n" +
		"Example: Stock at ₹100 with EPS of ₹10 has P/E = 10. Stock at ₹100 with EPS of ₹5 has P/E " +
		"= 20. The first stock is 'cheaper' relative to its earnings.\n\n" +
		"Important: Always compare P/E within the same industry. IT companies typically have P/E of" +
		" 25-40, while banks have P/E of 10-20. A P/E of 30 is cheap for IT but expensive for " +
		"banking."

	explainPB = "Price-to-Book (P/B) Ratio compares a stock's market price to its book value (net assets). " +
		"It's calculated as: Share Price ÷ Book Value Per Share.\n\n" +
		"How it works: P/B below 1.0 means you're buying the company for less than its net asset " +
		"value — like buying a ₹100 note for ₹80. This can signal undervaluation, especially in " +
		"asset-heavy industries.\n\n" +
		"Example: A bank with assets worth ₹200 per share trading at ₹160 has P/B = 0.8. You're " +
		"getting ₹200 of book value for ₹160.\n\n" +
		"Best for: Banks, NBFCs, real estate, and manufacturing companies where book value is " +
		"meaningful. Less useful for IT/tech companies where value comes from intangible assets " +
		"like software and talent."

	explainDividendYield = "Dividend Yield is the annual dividend payment as a percentage of the stock price. It's " +
		"calculated as: Annual Dividend Per Share ÷ Current Share Price × 100.\n\n" +
		"How it works: Higher yield means more cash income per rupee invested. A 4% dividend yield " +
		"means for every ₹10,000 invested, you get ₹400 per year as dividends.\n\n" +
		"Example: Stock at ₹100 paying ₹5 annual dividend = 5% yield. Same stock at ₹200 = 2.5% " +
		"yield.\n\n" +
		"Caution: Very high yields (>8%) could signal distress — the price may have dropped " +
		"sharply, inflating the yield. The company might cut dividends soon. Look for consistent " +
		"dividend history. Stocks with 0% yield reinvest all profits into growth instead."

	explainEVEBITDA = "Enterprise Value to EBITDA measures a company's total value relative to its operating " +
		"earnings. EV = Market Cap + Debt - Cash. EBITDA = Earnings Before Interest, Taxes, " +
		"Depreciation & Amortization.\n\n" +
		"How it works: Unlike P/E, EV/EBITDA accounts for a company's debt. Two companies with the " +
		"same P/E but different debt levels will have different EV/EBITDA — the one with more debt " +
		"costs more to 'buy entirely'.\n\n" +
		"Example: Company A has market cap ₹1000 Cr, debt ₹500 Cr, cash ₹100 Cr, EBITDA ₹200 Cr. EV" +
		" = 1000 + 500 - 100 = ₹1400 Cr. EV/EBITDA = 7x. Under 10x is generally considered cheap.\n\n" +
		"Better than P/E for: Comparing companies with different capital structures (debt levels). " +
		"Widely used by institutional investors and in M&A valuations."
)
