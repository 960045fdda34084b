package formats

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleEOP = `<?xml version="1.0" encoding="utf-8" standalone="yes"?>
<opt:EarthObservation xmlns:gml="http://www.opengis.net/gml" xmlns:eop="http://earth.esa.int/eop" xmlns:opt="http://earth.esa.int/opt" gml:id="ALPSRP160026890" version="1.2.1">
  <gml:metaDataProperty>
    <eop:EarthObservationMetaData>
      <eop:identifier>ALPSRP160026890</eop:identifier>
    </eop:EarthObservationMetaData>
  </gml:metaDataProperty>
  <gml:validTime>
    <gml:TimePeriod>
      <gml:beginPosition>2009-01-25T03:16:16.545+00:00</gml:beginPosition>
      <gml:endPosition>2009-01-25T03:16:25.134+00:00</gml:endPosition>
    </gml:TimePeriod>
  </gml:validTime>
  <gml:using>
    <eop:EarthObservationEquipment>
      <eop:platform>
        <eop:Platform>
          <eop:shortName>ALOS</eop:shortName>
          <eop:serialIdentifier>1</eop:serialIdentifier>
        </eop:Platform>
      </eop:platform>
      <eop:instrument>
        <eop:Instrument>
          <eop:shortName>PSR</eop:shortName>
        </eop:Instrument>
      </eop:instrument>
    </eop:EarthObservationEquipment>
  </gml:using>
  <gml:target>
    <eop:Footprint>
      <gml:multiExtentOf>
        <gml:MultiSurface srsName="EPSG:4326">
          <gml:surfaceMembers>
            <gml:Polygon>
              <gml:exterior>
                <gml:LinearRing>
                  <gml:posList>-14.266 -65.303 -14.120 -64.672
                    -14.637 -64.547 -14.783 -65.179 -14.266 -65.303</gml:posList>
                </gml:LinearRing>
              </gml:exterior>
            </gml:Polygon>
          </gml:surfaceMembers>
        </gml:MultiSurface>
      </gml:multiExtentOf>
    </eop:Footprint>
  </gml:target>
</opt:EarthObservation>`

const sampleEOPWithParent = `<eop:EarthObservation xmlns:eop="http://earth.esa.int/eop" xmlns:gml="http://www.opengis.net/gml">
  <gml:metaDataProperty>
    <eop:EarthObservationMetaData>
      <eop:identifier>urn:ogc:def:EOP:KOMPSAT-2:ALL:MSC_100101</eop:identifier>
      <eop:parentIdentifier>urn:ogc:def:EOP:KOMPSAT-2:ALL</eop:parentIdentifier>
    </eop:EarthObservationMetaData>
  </gml:metaDataProperty>
  <gml:Polygon><gml:posList>10 20 10 21 11 21 11 20</gml:posList></gml:Polygon>
</eop:EarthObservation>`

const sampleDIMAP = `<?xml version="1.0" encoding="ISO-8859-1"?>
<Dimap_Document name="METADATA.DIM">
  <Metadata_Id>
    <METADATA_FORMAT version="1.1">DIMAP</METADATA_FORMAT>
    <METADATA_PROFILE>SPOTSCENE_1A</METADATA_PROFILE>
  </Metadata_Id>
  <Dataset_Frame>
    <Vertex>
      <FRAME_LON>43.191744</FRAME_LON>
      <FRAME_LAT>-11.353272</FRAME_LAT>
      <FRAME_ROW>1</FRAME_ROW>
      <FRAME_COL>1</FRAME_COL>
    </Vertex>
    <Vertex>
      <FRAME_LON>43.727661</FRAME_LON>
      <FRAME_LAT>-11.473516</FRAME_LAT>
    </Vertex>
    <Vertex>
      <FRAME_LON>43.605659</FRAME_LON>
      <FRAME_LAT>-12.003823</FRAME_LAT>
    </Vertex>
    <Vertex>
      <FRAME_LON>43.068656</FRAME_LON>
      <FRAME_LAT>-11.883452</FRAME_LAT>
    </Vertex>
  </Dataset_Frame>
  <Dataset_Sources>
    <Source_Information>
      <SOURCE_TYPE>SCENE</SOURCE_TYPE>
      <SOURCE_ID>51573730512080723521A</SOURCE_ID>
      <Scene_Source>
        <IMAGING_DATE>2005-12-08</IMAGING_DATE>
        <IMAGING_TIME>07:23:55</IMAGING_TIME>
        <MISSION>SPOT</MISSION>
        <MISSION_INDEX>5</MISSION_INDEX>
        <INSTRUMENT>HRG</INSTRUMENT>
        <INSTRUMENT_INDEX>1</INSTRUMENT_INDEX>
      </Scene_Source>
    </Source_Information>
    <Source_Information>
      <SOURCE_ID>SECOND</SOURCE_ID>
    </Source_Information>
  </Dataset_Sources>
</Dimap_Document>`

// Formosat frame listing its vertices out of ring order, with upper-case VERTEX
const sampleF2 = `<Dimap_Document>
  <Metadata_Id><METADATA_PROFILE>FORMOSAT2_SCENE</METADATA_PROFILE></Metadata_Id>
  <Dataset_Frame>
    <VERTEX><FRAME_LON>120.0</FRAME_LON><FRAME_LAT>24.0</FRAME_LAT><FRAME_ROW>1</FRAME_ROW><FRAME_COL>1</FRAME_COL></VERTEX>
    <VERTEX><FRAME_LON>120.2</FRAME_LON><FRAME_LAT>23.8</FRAME_LAT><FRAME_ROW>12000</FRAME_ROW><FRAME_COL>12000</FRAME_COL></VERTEX>
    <VERTEX><FRAME_LON>120.2</FRAME_LON><FRAME_LAT>24.0</FRAME_LAT><FRAME_ROW>1</FRAME_ROW><FRAME_COL>12000</FRAME_COL></VERTEX>
    <VERTEX><FRAME_LON>120.0</FRAME_LON><FRAME_LAT>23.8</FRAME_LAT><FRAME_ROW>12000</FRAME_ROW><FRAME_COL>1</FRAME_COL></VERTEX>
  </Dataset_Frame>
  <Dataset_Sources>
    <Source_Information>
      <SOURCE_ID>RS2 2010/01/02 03.04</SOURCE_ID>
      <Scene_Source>
        <IMAGING_DATE>2010-01-02</IMAGING_DATE>
        <IMAGING_TIME>03:04:05</IMAGING_TIME>
        <MISSION>FORMOSAT</MISSION>
        <MISSION_INDEX>2</MISSION_INDEX>
        <INSTRUMENT>RSI</INSTRUMENT>
      </Scene_Source>
    </Source_Information>
  </Dataset_Sources>
</Dimap_Document>`

const sampleDMC = `<Dimap_Document>
  <Metadata_Id><METADATA_PROFILE>DMC_L1R</METADATA_PROFILE></Metadata_Id>
  <Dataset_Frame>
    <Vertex><FRAME_LON>1</FRAME_LON><FRAME_LAT>1</FRAME_LAT></Vertex>
    <Vertex><FRAME_LON>2</FRAME_LON><FRAME_LAT>1</FRAME_LAT></Vertex>
    <Vertex><FRAME_LON>2</FRAME_LON><FRAME_LAT>0</FRAME_LAT></Vertex>
    <Vertex><FRAME_LON>1</FRAME_LON><FRAME_LAT>0</FRAME_LAT></Vertex>
  </Dataset_Frame>
  <Source_Information>
    <SOURCE_ID>UK2.scene.01</SOURCE_ID>
    <Scene_Source>
      <IMAGING_DATE>2011-03-12</IMAGING_DATE>
      <IMAGING_TIME>10:11:12Z</IMAGING_TIME>
      <MISSION>UK-DMC</MISSION>
      <INSTRUMENT>SLIM6</INSTRUMENT>
    </Scene_Source>
  </Source_Information>
</Dimap_Document>`

const samplePHR = `<Dimap_Document>
  <Metadata_Identification>
    <METADATA_FORMAT version="2.0">DIMAP</METADATA_FORMAT>
    <METADATA_PROFILE>PHR_SENSOR</METADATA_PROFILE>
  </Metadata_Identification>
  <Dataset_Content>
    <Dataset_Extent>
      <EXTENT_TYPE>Bounding_Polygon</EXTENT_TYPE>
      <Vertex><LON>33.57708307493774</LON><LAT>10.07080532946307</LAT><COL>1</COL><ROW>1</ROW></Vertex>
      <Vertex><LON>33.76169809689237</LON><LAT>10.06956601458526</LAT><COL>41500</COL><ROW>1</ROW></Vertex>
      <Vertex><LON>33.76152215778689</LON><LAT>9.883986427793989</LAT><COL>41500</COL><ROW>41008</ROW></Vertex>
      <Vertex><LON>33.57728269408435</LON><LAT>9.884587971623581</LAT><COL>1</COL><ROW>41008</ROW></Vertex>
    </Dataset_Extent>
  </Dataset_Content>
  <Processing_Information>
    <Product_Settings>
      <SPECTRAL_PROCESSING>P</SPECTRAL_PROCESSING>
    </Product_Settings>
  </Processing_Information>
  <Dataset_Sources>
    <Source_Identification>
      <SOURCE_ID>DS_PHR1A_201210040819238_FR1_PX_E033N09_0924_01863</SOURCE_ID>
      <Strip_Source>
        <MISSION>PHR</MISSION>
        <MISSION_INDEX>1A</MISSION_INDEX>
        <INSTRUMENT>PHR</INSTRUMENT>
        <INSTRUMENT_INDEX>1A</INSTRUMENT_INDEX>
        <IMAGING_DATE>2012-10-04</IMAGING_DATE>
        <IMAGING_TIME>08:19:23.8Z</IMAGING_TIME>
      </Strip_Source>
    </Source_Identification>
  </Dataset_Sources>
</Dimap_Document>`

const sampleSACC = `satellite: SAC-C
sensor: MMRS
imageID: 20080510_123944_rs_9_mmrs-hr
start: 2008/05/10 12:49:47
stop: 2008/05/10 12:51:06
lat_upper_left: -41.40099
lon_upper_left: -74.34486
lat_upper_right: -42.01559
lon_upper_right: -69.93225
lat_lower_left: -46.01735
lon_lower_left: -76.28397
lat_lower_right: -46.69219
lon_lower_right: -71.50719
`

const sampleIRS = "Satellite   P6\r\n" +
	"Sensor  AWIF\r\n" +
	"DateOfPass  01-NOV-2010\r\n" +
	"North West Latitude   17.096\r\n" +
	"North West Longitude  95.171\r\n" +
	"North East Latitude 15.612\r\n" +
	"North East Longitude  101.926\r\n" +
	"South East Latitude   9.103\r\n" +
	"South East Longitude  100.341\r\n" +
	"South West Latitude   10.574\r\n" +
	"South West Longitude  93.758\r\n" +
	"Scene Start Time  305040752717\r\n"

const sampleLandsat = `GROUP = L1_METADATA_FILE
  GROUP = PRODUCT_METADATA
    PRODUCT_TYPE = "L1T"
    SPACECRAFT_ID = "Landsat7"
    SENSOR_ID = "ETM+"
    ACQUISITION_DATE = 2010-10-24
    SCENE_CENTER_SCAN_TIME = 03:11:17.8745641Z
    PRODUCT_UL_CORNER_LAT = 16.8445483
    PRODUCT_UL_CORNER_LON = 104.6066884
    PRODUCT_UR_CORNER_LAT = 16.8358584
    PRODUCT_UR_CORNER_LON = 106.9295682
    PRODUCT_LL_CORNER_LAT = 14.9515140
    PRODUCT_LL_CORNER_LON = 104.6103499
    PRODUCT_LR_CORNER_LAT = 14.9438476
    PRODUCT_LR_CORNER_LON = 106.9116176
  END_GROUP = PRODUCT_METADATA
END_GROUP = L1_METADATA_FILE
END
`

const sampleRS2 = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<product xmlns="http://www.rsi.ca/rs2/prod/xml/schemas">
  <productId>PDS_01035090</productId>
  <sourceAttributes>
    <satellite>RADARSAT-2</satellite>
    <sensor>SAR</sensor>
    <rawDataStartTime>2010-04-27T00:01:42.119000Z</rawDataStartTime>
  </sourceAttributes>
  <imageAttributes>
    <geographicInformation>
      <geolocationGrid>
        <imageTiePoint>
          <imageCoordinate><line>2.20410000e+04</line><pixel>1.21663633e+04</pixel></imageCoordinate>
          <geodeticCoordinate><latitude units="deg">2.9662e+01</latitude><longitude units="deg">-9.0839e+01</longitude></geodeticCoordinate>
        </imageTiePoint>
        <imageTiePoint>
          <imageCoordinate><line>0</line><pixel>0</pixel></imageCoordinate>
          <geodeticCoordinate><latitude units="deg">3.0500e+01</latitude><longitude units="deg">-9.1500e+01</longitude></geodeticCoordinate>
        </imageTiePoint>
        <imageTiePoint>
          <imageCoordinate><line>0</line><pixel>1.21663633e+04</pixel></imageCoordinate>
          <geodeticCoordinate><latitude units="deg">3.0600e+01</latitude><longitude units="deg">-9.0700e+01</longitude></geodeticCoordinate>
        </imageTiePoint>
        <imageTiePoint>
          <imageCoordinate><line>1.1e+04</line><pixel>6.0e+03</pixel></imageCoordinate>
          <geodeticCoordinate><latitude units="deg">3.0100e+01</latitude><longitude units="deg">-9.1100e+01</longitude></geodeticCoordinate>
        </imageTiePoint>
        <imageTiePoint>
          <imageCoordinate><line>2.20410000e+04</line><pixel>0</pixel></imageCoordinate>
          <geodeticCoordinate><latitude units="deg">2.9560e+01</latitude><longitude units="deg">-9.1640e+01</longitude></geodeticCoordinate>
        </imageTiePoint>
      </geolocationGrid>
    </geographicInformation>
  </imageAttributes>
</product>`

// writePackage lays out an extracted package in a temporary directory
func writePackage(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}
