package schema

import "github.com/sdarn/dmapio/pkg/dmap"

// The catalog below follows the field tables the SuperDARN radar
// software writes. Required fields are present in every record the
// instrument software has ever produced for the product; optional
// fields were introduced by later software revisions or depend on the
// radar configuration (xcfd exists only when the interferometer ran).

var catalog = map[string]*Schema{
	"iqdat":  IQDAT,
	"rawacf": RAWACF,
	"fitacf": FITACF,
	"grid":   GRID,
	"map":    MAP,
	"snd":    SND,
}

// radarBlock is the operating-parameter prologue shared by the
// beam-oriented products (iqdat, rawacf, fitacf).
var radarBlock = map[string]FieldSpec{
	"radar.revision.major": {Type: dmap.Char},
	"radar.revision.minor": {Type: dmap.Char},
	"origin.code":          {Type: dmap.Char},
	"origin.time":          {Type: dmap.String},
	"origin.command":       {Type: dmap.String},
	"cp":                   {Type: dmap.Short},
	"stid":                 {Type: dmap.Short},
	"time.yr":              {Type: dmap.Short},
	"time.mo":              {Type: dmap.Short},
	"time.dy":              {Type: dmap.Short},
	"time.hr":              {Type: dmap.Short},
	"time.mt":              {Type: dmap.Short},
	"time.sc":              {Type: dmap.Short},
	"time.us":              {Type: dmap.Int},
	"txpow":                {Type: dmap.Short},
	"nave":                 {Type: dmap.Short},
	"atten":                {Type: dmap.Short},
	"lagfr":                {Type: dmap.Short},
	"smsep":                {Type: dmap.Short},
	"ercod":                {Type: dmap.Short},
	"stat.agc":             {Type: dmap.Short},
	"stat.lopwr":           {Type: dmap.Short},
	"noise.search":         {Type: dmap.Float},
	"noise.mean":           {Type: dmap.Float},
	"channel":              {Type: dmap.Short},
	"bmnum":                {Type: dmap.Short},
	"bmazm":                {Type: dmap.Float},
	"scan":                 {Type: dmap.Short},
	"offset":               {Type: dmap.Short},
	"rxrise":               {Type: dmap.Short},
	"intt.sc":              {Type: dmap.Short},
	"intt.us":              {Type: dmap.Int},
	"txpl":                 {Type: dmap.Short},
	"mpinc":                {Type: dmap.Short},
	"mppul":                {Type: dmap.Short},
	"mplgs":                {Type: dmap.Short},
	"nrang":                {Type: dmap.Short},
	"frang":                {Type: dmap.Short},
	"rsep":                 {Type: dmap.Short},
	"xcf":                  {Type: dmap.Short},
	"tfreq":                {Type: dmap.Short},
	"mxpwr":                {Type: dmap.Int},
	"lvmax":                {Type: dmap.Int},
	"combf":                {Type: dmap.String},
	"ptab":                 {Type: dmap.Short},
	"ltab":                 {Type: dmap.Short},
}

// The grid products share a time window block, a per-station block and
// a per-vector block.
var gridTimeBlock = map[string]FieldSpec{
	"start.year":   {Type: dmap.Short},
	"start.month":  {Type: dmap.Short},
	"start.day":    {Type: dmap.Short},
	"start.hour":   {Type: dmap.Short},
	"start.minute": {Type: dmap.Short},
	"start.second": {Type: dmap.Double},
	"end.year":     {Type: dmap.Short},
	"end.month":    {Type: dmap.Short},
	"end.day":      {Type: dmap.Short},
	"end.hour":     {Type: dmap.Short},
	"end.minute":   {Type: dmap.Short},
	"end.second":   {Type: dmap.Double},
}

var gridStationBlock = map[string]FieldSpec{
	"stid":           {Type: dmap.Short},
	"channel":        {Type: dmap.Short},
	"nvec":           {Type: dmap.Short},
	"freq":           {Type: dmap.Float},
	"major.revision": {Type: dmap.Short},
	"minor.revision": {Type: dmap.Short},
	"program.id":     {Type: dmap.Short},
	"noise.mean":     {Type: dmap.Float},
	"noise.sd":       {Type: dmap.Float},
	"gsct":           {Type: dmap.Short},
	"v.min":          {Type: dmap.Float},
	"v.max":          {Type: dmap.Float},
	"p.min":          {Type: dmap.Float},
	"p.max":          {Type: dmap.Float},
	"w.min":          {Type: dmap.Float},
	"w.max":          {Type: dmap.Float},
	"ve.min":         {Type: dmap.Float},
	"ve.max":         {Type: dmap.Float},
}

var gridVectorBlock = map[string]FieldSpec{
	"vector.mlat":       {Type: dmap.Float},
	"vector.mlon":       {Type: dmap.Float},
	"vector.kvect":      {Type: dmap.Float},
	"vector.stid":       {Type: dmap.Short},
	"vector.channel":    {Type: dmap.Short},
	"vector.index":      {Type: dmap.Int},
	"vector.vel.median": {Type: dmap.Float},
	"vector.vel.sd":     {Type: dmap.Float},
	"vector.pwr.median": {Type: dmap.Float, Optional: true},
	"vector.pwr.sd":     {Type: dmap.Float, Optional: true},
	"vector.wdt.median": {Type: dmap.Float, Optional: true},
	"vector.wdt.sd":     {Type: dmap.Float, Optional: true},
}

// IQDAT describes raw in-phase/quadrature voltage samples.
var IQDAT = &Schema{
	Name: "iqdat",
	Fields: merge(radarBlock, map[string]FieldSpec{
		"iqdata.revision.major": {Type: dmap.Int},
		"iqdata.revision.minor": {Type: dmap.Int},
		"seqnum":                {Type: dmap.Int},
		"chnnum":                {Type: dmap.Int},
		"smpnum":                {Type: dmap.Int},
		"skpnum":                {Type: dmap.Int},
		"tsc":                   {Type: dmap.Int},
		"tus":                   {Type: dmap.Int},
		"tatten":                {Type: dmap.Short},
		"tnoise":                {Type: dmap.Float},
		"toff":                  {Type: dmap.Int},
		"tsze":                  {Type: dmap.Int},
		"data":                  {Type: dmap.Short},
	}),
}

// RAWACF describes auto-correlation function products.
var RAWACF = &Schema{
	Name: "rawacf",
	Fields: merge(radarBlock, map[string]FieldSpec{
		"rawacf.revision.major": {Type: dmap.Int},
		"rawacf.revision.minor": {Type: dmap.Int},
		"thr":                   {Type: dmap.Float},
		"slist":                 {Type: dmap.Short},
		"pwr0":                  {Type: dmap.Float},
		"acfd":                  {Type: dmap.Float},
		"xcfd":                  {Type: dmap.Float, Optional: true},
		"mplgexs":               {Type: dmap.Short, Optional: true},
		"ifmode":                {Type: dmap.Short, Optional: true},
	}),
}

// FITACF describes fitted auto-correlation parameters.
var FITACF = &Schema{
	Name: "fitacf",
	Fields: merge(radarBlock, map[string]FieldSpec{
		"fitacf.revision.major": {Type: dmap.Int},
		"fitacf.revision.minor": {Type: dmap.Int},
		"noise.sky":             {Type: dmap.Float},
		"noise.lag0":            {Type: dmap.Float},
		"noise.vel":             {Type: dmap.Float},
		"pwr0":                  {Type: dmap.Float},
		"slist":                 {Type: dmap.Short},
		"nlag":                  {Type: dmap.Short},
		"qflg":                  {Type: dmap.Char},
		"gflg":                  {Type: dmap.Char},
		"p_l":                   {Type: dmap.Float},
		"p_l_e":                 {Type: dmap.Float},
		"p_s":                   {Type: dmap.Float},
		"p_s_e":                 {Type: dmap.Float},
		"v":                     {Type: dmap.Float},
		"v_e":                   {Type: dmap.Float},
		"w_l":                   {Type: dmap.Float},
		"w_l_e":                 {Type: dmap.Float},
		"w_s":                   {Type: dmap.Float},
		"w_s_e":                 {Type: dmap.Float},
		"sd_l":                  {Type: dmap.Float},
		"sd_s":                  {Type: dmap.Float},
		"sd_phi":                {Type: dmap.Float},
		"mplgexs":               {Type: dmap.Short, Optional: true},
		"ifmode":                {Type: dmap.Short, Optional: true},
		"algorithm":             {Type: dmap.String, Optional: true},
		"tdiff":                 {Type: dmap.Float, Optional: true},
		"x_qflg":                {Type: dmap.Char, Optional: true},
		"x_gflg":                {Type: dmap.Char, Optional: true},
		"x_p_l":                 {Type: dmap.Float, Optional: true},
		"x_p_l_e":               {Type: dmap.Float, Optional: true},
		"x_p_s":                 {Type: dmap.Float, Optional: true},
		"x_p_s_e":               {Type: dmap.Float, Optional: true},
		"x_v":                   {Type: dmap.Float, Optional: true},
		"x_v_e":                 {Type: dmap.Float, Optional: true},
		"x_w_l":                 {Type: dmap.Float, Optional: true},
		"x_w_l_e":               {Type: dmap.Float, Optional: true},
		"x_w_s":                 {Type: dmap.Float, Optional: true},
		"x_w_s_e":               {Type: dmap.Float, Optional: true},
		"x_sd_l":                {Type: dmap.Float, Optional: true},
		"x_sd_s":                {Type: dmap.Float, Optional: true},
		"x_sd_phi":              {Type: dmap.Float, Optional: true},
		"phi0":                  {Type: dmap.Float, Optional: true},
		"phi0_e":                {Type: dmap.Float, Optional: true},
		"elv":                   {Type: dmap.Float, Optional: true},
		"elv_low":               {Type: dmap.Float, Optional: true},
		"elv_high":              {Type: dmap.Float, Optional: true},
	}),
}

// GRID describes gridded line-of-sight velocity vectors.
var GRID = &Schema{
	Name:   "grid",
	Fields: merge(gridTimeBlock, gridStationBlock, gridVectorBlock),
}

// MAP describes hemispheric convection map fitting output. The grid
// vector arrays become optional here: an empty map interval carries
// none of them.
var MAP = &Schema{
	Name: "map",
	Fields: merge(gridTimeBlock, gridStationBlock, optional(gridVectorBlock), map[string]FieldSpec{
		"map.major.revision": {Type: dmap.Short},
		"map.minor.revision": {Type: dmap.Short},
		"source":             {Type: dmap.String},
		"doping.level":       {Type: dmap.Short},
		"model.wt":           {Type: dmap.Short},
		"error.wt":           {Type: dmap.Short},
		"IMF.flag":           {Type: dmap.Short},
		"IMF.delay":          {Type: dmap.Short, Optional: true},
		"IMF.Bx":             {Type: dmap.Double, Optional: true},
		"IMF.By":             {Type: dmap.Double, Optional: true},
		"IMF.Bz":             {Type: dmap.Double, Optional: true},
		"model.angle":        {Type: dmap.String, Optional: true},
		"model.level":        {Type: dmap.String, Optional: true},
		"model.tilt":         {Type: dmap.String, Optional: true},
		"model.name":         {Type: dmap.String, Optional: true},
		"hemisphere":         {Type: dmap.Short},
		"fit.order":          {Type: dmap.Short},
		"latmin":             {Type: dmap.Float},
		"chi.sqr":            {Type: dmap.Double},
		"chi.sqr.dat":        {Type: dmap.Double},
		"rms.err":            {Type: dmap.Double},
		"lon.shft":           {Type: dmap.Float},
		"lat.shft":           {Type: dmap.Float},
		"mlt.start":          {Type: dmap.Double},
		"mlt.end":            {Type: dmap.Double},
		"mlt.av":             {Type: dmap.Double},
		"pot.drop":           {Type: dmap.Double},
		"pot.drop.err":       {Type: dmap.Double},
		"pot.max":            {Type: dmap.Double},
		"pot.max.err":        {Type: dmap.Double},
		"pot.min":            {Type: dmap.Double},
		"pot.min.err":        {Type: dmap.Double},
		"N":                  {Type: dmap.Double},
		"N+1":                {Type: dmap.Double},
		"N+2":                {Type: dmap.Double},
		"N+3":                {Type: dmap.Double},
		"model.mlat":         {Type: dmap.Float, Optional: true},
		"model.mlon":         {Type: dmap.Float, Optional: true},
		"model.kvect":        {Type: dmap.Float, Optional: true},
		"model.vel.median":   {Type: dmap.Float, Optional: true},
		"boundary.mlat":      {Type: dmap.Float, Optional: true},
		"boundary.mlon":      {Type: dmap.Float, Optional: true},
	}),
}

// SND describes ionospheric sounding mode output.
var SND = &Schema{
	Name: "snd",
	Fields: map[string]FieldSpec{
		"radar.revision.major":  {Type: dmap.Char},
		"radar.revision.minor":  {Type: dmap.Char},
		"origin.code":           {Type: dmap.Char},
		"origin.time":           {Type: dmap.String},
		"origin.command":        {Type: dmap.String},
		"cp":                    {Type: dmap.Short},
		"stid":                  {Type: dmap.Short},
		"time.yr":               {Type: dmap.Short},
		"time.mo":               {Type: dmap.Short},
		"time.dy":               {Type: dmap.Short},
		"time.hr":               {Type: dmap.Short},
		"time.mt":               {Type: dmap.Short},
		"time.sc":               {Type: dmap.Short},
		"time.us":               {Type: dmap.Int},
		"nave":                  {Type: dmap.Short},
		"lagfr":                 {Type: dmap.Short},
		"smsep":                 {Type: dmap.Short},
		"noise.search":          {Type: dmap.Float},
		"noise.mean":            {Type: dmap.Float},
		"channel":               {Type: dmap.Short},
		"bmnum":                 {Type: dmap.Short},
		"bmazm":                 {Type: dmap.Float},
		"scan":                  {Type: dmap.Short},
		"rxrise":                {Type: dmap.Short},
		"intt.sc":               {Type: dmap.Short},
		"intt.us":               {Type: dmap.Int},
		"nrang":                 {Type: dmap.Short},
		"frang":                 {Type: dmap.Short},
		"rsep":                  {Type: dmap.Short},
		"xcf":                   {Type: dmap.Short},
		"tfreq":                 {Type: dmap.Short},
		"sky_noise":             {Type: dmap.Float},
		"combf":                 {Type: dmap.String},
		"fitacf.revision.major": {Type: dmap.Int},
		"fitacf.revision.minor": {Type: dmap.Int},
		"snd.revision.major":    {Type: dmap.Short},
		"snd.revision.minor":    {Type: dmap.Short},
		"slist":                 {Type: dmap.Short},
		"qflg":                  {Type: dmap.Char},
		"gflg":                  {Type: dmap.Char},
		"v":                     {Type: dmap.Float},
		"v_e":                   {Type: dmap.Float},
		"p_l":                   {Type: dmap.Float},
		"w_l":                   {Type: dmap.Float},
		"x_qflg":                {Type: dmap.Char, Optional: true},
		"phi0":                  {Type: dmap.Float, Optional: true},
		"phi0_e":                {Type: dmap.Float, Optional: true},
	},
}

// merge combines field tables into one; later tables win on collision.
func merge(tables ...map[string]FieldSpec) map[string]FieldSpec {
	out := make(map[string]FieldSpec)
	for _, t := range tables {
		for name, spec := range t {
			out[name] = spec
		}
	}
	return out
}

// optional returns a copy of a table with every field made optional.
func optional(table map[string]FieldSpec) map[string]FieldSpec {
	out := make(map[string]FieldSpec, len(table))
	for name, spec := range table {
		spec.Optional = true
		out[name] = spec
	}
	return out
}
