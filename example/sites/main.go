package main

import (
	"flag"
	"fmt"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/carbocation/fpa"
	"github.com/carbocation/pfx"
	log "github.com/sirupsen/logrus"
)

func main() {
	path := flag.String("filename", fpa.DefaultInput, "Filename of the allele frequency estimates to process")
	n := flag.Int("n", 10, "Number of sites to show")
	flag.Parse()

	if strings.HasPrefix(*path, "~/") {
		usr, err := user.Current()
		if err != nil {
			log.Fatalln(pfx.Err(err))
		}
		*path = filepath.Join(usr.HomeDir, (*path)[2:])
	}

	f, err := fpa.Open(*path)
	if err != nil {
		log.Fatalln(err)
	}
	defer f.Close()

	log.Printf("%s: %d populations (%s)\n", f.FilePath, f.NPopulations, f.Compression)
	for _, pop := range fpa.ReadPopulations(f) {
		fmt.Println(pop.ID, strings.Join(pop.Labels[:], " "))
	}

	th := fpa.DefaultThresholds()
	sr := f.NewSiteReader(false)
	for i := 1; i <= *n; i++ {
		s := sr.Read()
		if s == nil {
			break
		}

		res := fpa.Analyze(s, th)
		log.Printf("%d) %s:%d ne_pops=%d alleles=%d MAF=%f\n", i, s.Scaffold, s.Position, res.NePops, res.NumAlleles(), res.MAFTotal)
		for _, pa := range res.PrivateAlleles {
			log.Printf("\tprivate %s in population %d (focal %f, total %f, log10 p %f)\n", pa.Allele, pa.Population, pa.FocalFrequency, pa.TotalFrequency, pa.LogProbDetection)
		}
	}

	if sr.Error() != nil {
		log.Println("SR error:", sr.Error())
	}
}
