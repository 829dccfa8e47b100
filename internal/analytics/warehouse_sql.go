package analytics

// The CSV source is exposed to every query as the external table
// "transactions". Column names keep their header spelling and are quoted.

const sqlRowCount = `SELECT COUNT(*) AS row_count FROM transactions`

const sqlTransactionsByMIDAndCountry = `
	SELECT
		` + "`MID`" + `,
		` + "`Card Country`" + `,
		COUNT(*) AS total_rows
	FROM transactions
	WHERE ` + "`MID`" + ` IS NOT NULL
	GROUP BY ` + "`MID`, `Card Country`" + `
	ORDER BY ` + "`MID`" + ` ASC NULLS LAST, total_rows DESC, ` + "`Card Country`" + ` ASC NULLS LAST
	LIMIT 25
`

const sqlConversionByMIDAndCountry = `
	SELECT
		` + "`MID`" + `,
		` + "`Card Country`" + `,
		COUNTIF(` + "`Status`" + ` = 'pending') AS pending_count,
		COUNTIF(` + "`Status`" + ` = 'success') AS success_count,
		COUNTIF(` + "`Status`" + ` = 'declined') AS declined_count,
		COUNT(*) AS total_rows,
		ROUND(
			SAFE_DIVIDE(COUNTIF(` + "`Status`" + ` = 'success') * 100.0, NULLIF(COUNT(*), 0)),
			2
		) AS conversion_percent
	FROM transactions
	WHERE ` + "`MID`" + ` IS NOT NULL
	GROUP BY ` + "`MID`, `Card Country`" + `
	ORDER BY ` + "`MID`" + ` ASC NULLS LAST, total_rows DESC, ` + "`Card Country`" + ` ASC NULLS LAST
	LIMIT 25
`

// No LIMIT: the roll-up row must survive truncation, which capRollup handles.
const sqlTransactionCountByMIDWithTotal = `
	WITH grouped AS (
		SELECT
			CASE
				WHEN GROUPING(` + "`MID`" + `) = 1 THEN 'TOTAL'
				WHEN ` + "`MID`" + ` IS NULL THEN 'NULL'
				ELSE CAST(` + "`MID`" + ` AS STRING)
			END AS mid_label,
			COUNT(*) AS total_rows,
			GROUPING(` + "`MID`" + `) AS is_rollup
		FROM transactions
		GROUP BY ROLLUP(` + "`MID`" + `)
	)
	SELECT mid_label, total_rows
	FROM grouped
	ORDER BY is_rollup, mid_label
`

const sqlTransactionsByBankMIDCountry = `
	SELECT
		` + "`MID`" + `,
		` + "`Card Country`" + `,
		` + "`Bank Issuer`" + `,
		COUNT(*) AS total_rows
	FROM transactions
	WHERE ` + "`MID`" + ` IS NOT NULL
	GROUP BY ` + "`MID`, `Card Country`, `Bank Issuer`" + `
	ORDER BY
		` + "`MID`" + ` ASC NULLS LAST,
		` + "`Card Country`" + ` ASC NULLS LAST,
		total_rows DESC,
		` + "`Bank Issuer`" + ` ASC NULLS LAST
	LIMIT 25
`

const sqlTransactionsByCCBin = `
	WITH bins AS (
		SELECT
			` + "`CC bin`" + ` AS bin,
			COUNT(*) AS total_rows,
			ARRAY_AGG(STRUCT(
				` + "`Card Country`" + ` AS country,
				` + "`Bank Issuer`" + ` AS bank,
				` + "`MID`" + ` AS mid
			) LIMIT 1)[OFFSET(0)] AS seen
		FROM transactions
		WHERE ` + "`CC bin`" + ` IS NOT NULL
		GROUP BY ` + "`CC bin`" + `
	)
	SELECT bin, total_rows, seen.country, seen.bank, seen.mid
	FROM bins
	ORDER BY total_rows DESC, bin
	LIMIT 25
`

// Callers cap the row count; the same query serves every top-N.
const sqlTopCCBins = `
	SELECT
		CAST(` + "`CC bin`" + ` AS STRING) AS bin,
		COUNT(*) AS total_rows
	FROM transactions
	WHERE ` + "`CC bin`" + ` IS NOT NULL
	GROUP BY ` + "`CC bin`" + `
	ORDER BY total_rows DESC, ` + "`CC bin`" + `
`

// @bins is the ARRAY<STRING> of bins computed by sqlTopCCBins.
const sqlErrorsForBins = `
	WITH filtered AS (
		SELECT
			CAST(` + "`CC bin`" + ` AS STRING) AS bin,
			` + "`Error Unsafe Reason`" + ` AS reason,
			` + "`Card Country`" + ` AS country,
			` + "`Bank Issuer`" + ` AS bank,
			` + "`MID`" + ` AS mid
		FROM transactions
		WHERE CAST(` + "`CC bin`" + ` AS STRING) IN UNNEST(@bins)
			AND ` + "`Error Unsafe Reason`" + ` IS NOT NULL
	),
	seen AS (
		SELECT bin, ARRAY_AGG(STRUCT(country, bank, mid) LIMIT 1)[OFFSET(0)] AS s
		FROM filtered
		GROUP BY bin
	)
	SELECT
		f.bin,
		f.reason,
		COUNT(*) AS total_occurrences,
		ANY_VALUE(seen.s.country) AS country,
		ANY_VALUE(seen.s.bank) AS bank,
		ANY_VALUE(seen.s.mid) AS mid
	FROM filtered f
	JOIN seen USING (bin)
	GROUP BY f.bin, f.reason
	ORDER BY f.bin, total_occurrences DESC, f.reason
	LIMIT 25
`

const sqlTopCustomersByErrors = `
	SELECT
		` + "`Customer Email`" + `,
		COUNT(*) AS error_count
	FROM transactions
	WHERE ` + "`Error Unsafe Reason`" + ` IS NOT NULL
		AND ` + "`Customer Email`" + ` IS NOT NULL
	GROUP BY ` + "`Customer Email`" + `
	ORDER BY error_count DESC, ` + "`Customer Email`" + `
	LIMIT 25
`
