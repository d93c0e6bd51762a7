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
	path := flag.String("db", "", "Filename of the private allele database written by fpa -db")
	scaffold := flag.String("scaffold", "", "Only show private alleles on this scaffold")
	flag.Parse()

	if *path == "" {
		flag.PrintDefaults()
		log.Fatalln("No database file given")
	}

	if strings.HasPrefix(*path, "~/") {
		usr, err := user.Current()
		if err != nil {
			log.Fatalln(pfx.Err(err))
		}
		*path = filepath.Join(usr.HomeDir, (*path)[2:])
	}

	idx, err := fpa.OpenIndex(*path)
	if err != nil {
		log.Fatalln(err)
	}
	defer idx.Close()

	log.Printf("Index metadata: %+v\n", *idx.Metadata)

	counts, err := idx.CountByPopulation()
	if err != nil {
		log.Fatalln(err)
	}
	for _, c := range counts {
		fmt.Printf("population %d\t%d private alleles\n", c.Population, c.N)
	}

	rows, err := idx.PrivateAlleles(*scaffold)
	if err != nil {
		log.Fatalln(err)
	}
	for i, row := range rows {
		if i%30 == 0 {
			fmt.Printf("%d) %+v\n", i, row)
		}
	}

	log.Println("Saw", len(rows), "private alleles")
}
