package pubmed

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/medquery/core"
)

// Wire types for the efetch XML payload. Only the fields the article model
// needs are mapped.
type articleSet struct {
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	Citation medlineCitation `xml:"MedlineCitation"`
}

type medlineCitation struct {
	PMID         string          `xml:"PMID"`
	Article      articleRecord   `xml:"Article"`
	MeshHeadings []meshHeading   `xml:"MeshHeadingList>MeshHeading"`
}

type articleRecord struct {
	Title       string       `xml:"ArticleTitle"`
	Abstract    []string     `xml:"Abstract>AbstractText"`
	Authors     []author     `xml:"AuthorList>Author"`
	Journal     journal      `xml:"Journal"`
	ELocationID []eLocation  `xml:"ELocationID"`
}

type author struct {
	LastName       string `xml:"LastName"`
	ForeName       string `xml:"ForeName"`
	CollectiveName string `xml:"CollectiveName"`
}

type journal struct {
	Title   string  `xml:"Title"`
	PubDate pubDate `xml:"JournalIssue>PubDate"`
}

type pubDate struct {
	Year  string `xml:"Year"`
	Month string `xml:"Month"`
	Day   string `xml:"Day"`
}

type eLocation struct {
	Type  string `xml:"EIdType,attr"`
	Value string `xml:",chardata"`
}

type meshHeading struct {
	Descriptor string `xml:"DescriptorName"`
}

// parseArticleSet decodes an efetch XML payload into article records.
func parseArticleSet(body io.Reader) ([]*core.Article, error) {
	var set articleSet
	if err := xml.NewDecoder(body).Decode(&set); err != nil {
		return nil, err
	}

	articles := make([]*core.Article, 0, len(set.Articles))
	for _, raw := range set.Articles {
		articles = append(articles, toArticle(raw.Citation))
	}
	return articles, nil
}

func toArticle(citation medlineCitation) *core.Article {
	record := citation.Article

	authors := make([]string, 0, len(record.Authors))
	for _, a := range record.Authors {
		name := authorName(a)
		if name != "" {
			authors = append(authors, name)
		}
	}

	meshTerms := make([]string, 0, len(citation.MeshHeadings))
	for _, heading := range citation.MeshHeadings {
		if heading.Descriptor != "" {
			meshTerms = append(meshTerms, heading.Descriptor)
		}
	}

	var doi string
	for _, loc := range record.ELocationID {
		if loc.Type == "doi" {
			doi = strings.TrimSpace(loc.Value)
			break
		}
	}

	return &core.Article{
		PMID:      citation.PMID,
		Title:     strings.TrimSpace(record.Title),
		Abstract:  strings.TrimSpace(strings.Join(record.Abstract, "\n")),
		Authors:   authors,
		Journal:   strings.TrimSpace(record.Journal.Title),
		PubDate:   parsePubDate(record.Journal.PubDate),
		MeshTerms: meshTerms,
		DOI:       doi,
	}
}

func authorName(a author) string {
	if a.CollectiveName != "" {
		return a.CollectiveName
	}
	name := strings.TrimSpace(a.ForeName + " " + a.LastName)
	return name
}

var monthNames = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// parsePubDate converts a PubDate element to a timestamp. PubMed dates are
// often partial; missing month and day default to January 1, and an
// unparseable year yields the zero time.
func parsePubDate(d pubDate) time.Time {
	year, err := strconv.Atoi(strings.TrimSpace(d.Year))
	if err != nil {
		return time.Time{}
	}

	month := time.January
	rawMonth := strings.ToLower(strings.TrimSpace(d.Month))
	if m, ok := monthNames[rawMonth]; ok {
		month = m
	} else if n, err := strconv.Atoi(rawMonth); err == nil && n >= 1 && n <= 12 {
		month = time.Month(n)
	}

	day := 1
	if n, err := strconv.Atoi(strings.TrimSpace(d.Day)); err == nil && n >= 1 && n <= 31 {
		day = n
	}

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
